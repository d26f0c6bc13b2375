package main

import (
	"bufio"
	"os"
	"time"

	"ossm-go/internal/appctx"
	"ossm-go/services/serialcmd"
	"ossm-go/x/logx"
)

// serialConsoleLoop reads newline-terminated commands from stdin forever,
// dispatching each to the command handler. After end of input or a read
// error (which is logged), reading resumes after a 10 ms nap.
func serialConsoleLoop(app *appctx.Context, log *logx.Logger) {
	dispatcher := serialcmd.New(app, log)
	for {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			dispatcher.Handle(scanner.Text())
		}
		if err := scanner.Err(); err != nil {
			log.Printf("stdin read failed: %v", err)
		}
		time.Sleep(10 * time.Millisecond)
	}
}
