package fileutil

import "os"

// ReadableByAll is the mode for generated pages, which site tooling and
// other users read.
const ReadableByAll os.FileMode = 0o644

// DirMode is the mode for directories created under an output root.
const DirMode os.FileMode = 0o755
