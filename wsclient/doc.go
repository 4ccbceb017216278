// Package wsclient is the transport behind the try-it panel: a single
// WebSocket connection that reports state changes and every message sent
// or received to registered callbacks.
//
// The client does not reconnect. A dropped connection is reported as a
// state change and the caller decides whether to Connect again.
//
//	c, _ := wsclient.New()
//	c.OnMessage(func(m wsclient.Message) { fmt.Println(m.Direction, m.Data) })
//	if err := c.Connect(ctx, "wss://chat.example.com/socket"); err != nil {
//		return err
//	}
//	defer c.Disconnect()
//	_ = c.Send(`{"text":"hi"}`)
package wsclient
