package parser

import (
	"fmt"
)

// lint runs the enabled rule sets over a built document.
func (b *builder) lint(doc *Document) {
	if b.p.Ruleset.Core {
		b.lintCore(doc)
	}
	if b.p.Ruleset.Recommended {
		b.lintRecommended(doc)
	}
}

func (b *builder) lintCore(doc *Document) {
	firstUse := make(map[string]string)
	for _, op := range doc.operations {
		id := op.operationID
		if id == "" {
			continue
		}
		if prev, dup := firstUse[id]; dup {
			b.addDiag(SeverityError, CodeDuplicateOpID,
				fmt.Sprintf("operationId %q is already used by %s", id, prev), op.pointer+"/operationId")
			continue
		}
		firstUse[id] = op.pointer
	}

	known := make(map[string]bool, len(b.serverNames))
	for _, name := range b.serverNames {
		known[name] = true
	}
	for _, ch := range doc.channels {
		for i, name := range ch.servers {
			if !known[name] {
				b.addDiag(SeverityError, CodeUnknownServer,
					fmt.Sprintf("channel references undefined server %q", name),
					fmt.Sprintf("%s/servers/%d", ch.pointer, i))
			}
		}
	}
}

func (b *builder) lintRecommended(doc *Document) {
	if doc.info.Description == "" {
		b.addDiag(SeverityWarning, CodeInfoDescription, "info object should have a description", "/info")
	}
	for _, op := range doc.operations {
		if op.summary == "" && op.description == "" {
			b.addDiag(SeverityInfo, CodeOperationSummary,
				"operation should have a summary or description", op.pointer)
		}
	}
}
