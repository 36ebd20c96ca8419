// Package lib provides a Go SDK for the math worksheet service.
//
// It submits generation and grading jobs, follows their tasks until they finish
// and draws handwritten answers, without shelling out to the wsc CLI binary.
//
// # Quick Start
//
//	client, err := lib.New(ctx, lib.Config{APIURL: "http://localhost:8000/api/math-generation"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	sub, err := client.Generate(ctx, lib.GenerateRequest{...})
//	task, err := client.Watch(ctx, sub.TaskID, &lib.WatchOpts{
//	    Kind:     lib.TaskKindGenerate,
//	    OnUpdate: func(t lib.Task) { fmt.Println(t.Status, t.Progress) },
//	})
//
// # Task monitoring
//
// [Client.Watch] listens to the task push stream (server-sent events or a
// websocket, see [Config].PushTransport) and falls back to polling when the stream
// can't be opened or breaks. Updates never go backwards and stop at the first
// terminal status. A failed task is returned together with [ErrTaskFailed].
//
// # Handwritten answers
//
// [Canvas] holds one drawing surface per problem. Draw with strokes and export
// the surfaces as PNG images:
//
//	cv, _ := lib.NewCanvas(lib.CanvasOpts{})
//	cv.InitSurface("3", nil)
//	cv.BeginStroke("3", lib.Point{X: 10, Y: 10})
//	cv.ExtendStroke("3", lib.Point{X: 80, Y: 40})
//	cv.EndStroke("3")
//	png, _ := cv.ExportPNG("3")
//
// [Client.Grade] renders the canvas answers of an [AnswerSheet] by itself.
//
// # Error Handling
//
// All methods return errors that can be inspected with [errors.Is]:
//
//   - [ErrNotFound]: Task or surface does not exist.
//   - [ErrAlreadyExists]: Surface already initialized.
//   - [ErrNotValid]: Invalid input.
//   - [ErrTaskFailed]: The watched task failed.
//
// # Thread Safety
//
// A [Client] and a [Canvas] are safe for concurrent use. Every [Client.Watch]
// call uses its own task monitor.
package lib
