/*
Package socket runs a hub of WebSocket connections exchanging named events.

A [*Hub] is served through its own route, GET on its path:

	hub := socket.NewHub(socket.WithPath("/ws"))
	hub.On("chat", func(msg socket.Message, connID string) {
		hub.Emit("chat", msg.Body, socket.From(connID))
	})
	srv.Use(hub.Routes())

Every accepted connection gets a fresh id.
The hub announces it to every open connection, the new one included,
with a "connect" event whose body reads "<id> has connected",
and announces its departure to those remaining with a "disconnect" event.

Frames are JSON objects: {"from": "", "to": "", "event": "", "body": ...}.
A frame naming an event is handed to the handler registered for it with [*Hub.On].
Anything else, including frames that are not valid JSON and binary frames, is dropped
and the connection stays open.

A message with no body, meaning nil, "" or JSON null, is never sent.
A message addressed to an id not in the hub is dropped without error.

Each connection writes from its own bounded queue.
When a queue is full the message is dropped for that connection instead of blocking the sender.
*/
package socket
