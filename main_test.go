package main

import (
	"bytes"
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func callMain() (int, string) {
	exitCode := -1
	oldExit := exit
	defer func() { exit = oldExit }()
	exit = func(code int) { exitCode = code }

	var buf bytes.Buffer
	oldStdout := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	outputDone := make(chan struct{})
	go func() {
		_, _ = io.Copy(&buf, r)
		close(outputDone)
	}()

	main()

	w.Close()
	os.Stdout = oldStdout
	<-outputDone

	return exitCode, buf.String()
}

func TestMainDispatch(t *testing.T) {
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()

	tests := []struct {
		name           string
		args           []string
		expectedExit   int
		expectedOutput string
	}{
		{
			name:           "no arguments",
			args:           []string{"quill"},
			expectedExit:   1,
			expectedOutput: "Usage: quill <command>",
		},
		{
			name:           "help command",
			args:           []string{"quill", "help"},
			expectedExit:   0,
			expectedOutput: "backup <file>",
		},
		{
			name:           "version command",
			args:           []string{"quill", "version"},
			expectedExit:   0,
			expectedOutput: "quill version",
		},
		{
			name:           "unknown command",
			args:           []string{"quill", "unknown"},
			expectedExit:   1,
			expectedOutput: "Unknown command: unknown",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Args = tt.args

			exitCode, output := callMain()

			assert.Contains(t, output, tt.expectedOutput)
			assert.Equal(t, tt.expectedExit, exitCode)
		})
	}
}
