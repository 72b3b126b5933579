// Package session is the session orchestrator: it owns the running
// conversation history across turns, exposes one-shot and continuous
// modes, and wires the tool catalog, provider, and workflow engine together
// for a front-end to drive.
package session

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/jyje/pilot-agent/internal/debuglog"
	"github.com/jyje/pilot-agent/internal/llm"
	"github.com/jyje/pilot-agent/internal/transcript"
	"github.com/jyje/pilot-agent/internal/workflow"
	"golang.org/x/term"
)

// Sentinel is the continuous-mode exit command.
const Sentinel = "/bye"

// Metadata identifies a chat session. It is held on Orchestrator.Meta; the
// info and agent export commands do not read it.
type Metadata struct {
	SessionID    string
	StartedAt    time.Time
	ConfigPath   string
	ProviderName string
}

// Sink receives output destined for the front-end: prompts, echoed piped
// input, and rendered events. A CLI front-end implements it over a
// terminal; a test implements it over a buffer.
type Sink interface {
	io.Writer
	// Prompt writes s without a trailing newline, for an interactive
	// prompt that precedes a line of terminal input.
	Prompt(s string)
}

// stdoutSink is the default Sink, writing to stdout.
type stdoutSink struct{ w io.Writer }

// NewStdoutSink wraps w as a Sink (os.Stdout in production).
func NewStdoutSink(w io.Writer) Sink { return stdoutSink{w: w} }

func (s stdoutSink) Write(p []byte) (int, error) { return s.w.Write(p) }
func (s stdoutSink) Prompt(msg string)           { fmt.Fprint(s.w, msg) }

// Orchestrator wires together the engine, the running conversation state
// (messages only), and the input/output policy for one session.
type Orchestrator struct {
	Engine     *workflow.Engine
	Meta       Metadata
	Out        Sink
	NoStream   bool
	Transcript *transcript.Writer
	Debug      bool
	Log        *debuglog.Logger
	reader     *bufio.Reader
	isTerminal bool
	messages   []llm.Message
}

// New constructs an orchestrator reading from in (os.Stdin in production).
// Whether in is a terminal decides the input policy: prompt-and-read when it
// is, read-and-echo when it is piped.
func New(engine *workflow.Engine, meta Metadata, out Sink, in *os.File) *Orchestrator {
	o := &Orchestrator{Engine: engine, Meta: meta, Out: out, reader: bufio.NewReader(in)}
	o.isTerminal = term.IsTerminal(int(in.Fd()))
	return o
}

// RunOnce executes the one-shot mode: a single turn against an empty
// ConversationState, persisting a transcript if one was configured.
func (o *Orchestrator) RunOnce(ctx context.Context, question string) error {
	userInput := question
	if userInput == "" {
		var err error
		userInput, err = o.readInput()
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
	}
	if strings.TrimSpace(userInput) == "" {
		return nil
	}

	final, err := o.runTurn(ctx, userInput)
	if err != nil {
		return err
	}
	if o.Transcript != nil {
		o.Transcript.Record(userInput, final)
	}
	return nil
}

// RunContinuous loops reading input until the "/bye" sentinel, EOF on a
// non-interactive stream, or ctx cancellation. Empty input is skipped. A
// per-turn error is reported to Out and the loop continues.
func (o *Orchestrator) RunContinuous(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			return nil
		}

		userInput, err := o.readInput()
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}

		trimmed := strings.TrimSpace(userInput)
		if strings.EqualFold(trimmed, Sentinel) {
			return nil
		}
		if trimmed == "" {
			continue
		}

		final, err := o.runTurn(ctx, userInput)
		if err != nil {
			fmt.Fprintf(o.Out, "error: %v\n", err)
			continue
		}
		if o.Transcript != nil {
			o.Transcript.Record(userInput, final)
		}
	}
}

// readInput implements the input source policy: a prompt when the input
// stream is a terminal, otherwise a single line read from the input that is
// echoed once to Out so piped transcripts remain faithful.
func (o *Orchestrator) readInput() (string, error) {
	if o.isTerminal {
		o.Out.Prompt("You: ")
	}
	line, err := o.reader.ReadString('\n')
	if err != nil && line == "" {
		return "", io.EOF
	}
	line = strings.TrimRight(line, "\r\n")
	if !o.isTerminal {
		fmt.Fprintf(o.Out, "You: %s\n", line)
	}
	return line, nil
}

// streamingEnabled implements the streaming toggle: on iff the engine's
// provider reports streaming capability and the caller did not pass
// --no-stream.
func (o *Orchestrator) streamingEnabled() bool {
	if o.NoStream {
		return false
	}
	if o.Engine.Provider == nil {
		return true
	}
	return o.Engine.Provider.Capabilities().Streaming
}

// runTurn drives one user turn through the engine, rendering its event
// stream (or a single summary block in non-streaming mode) to Out, and
// swaps the returned message history into the orchestrator's running
// ConversationState.
func (o *Orchestrator) runTurn(ctx context.Context, userInput string) (string, error) {
	events, result := o.Engine.Run(ctx, o.messages, userInput)

	streaming := o.streamingEnabled()
	var toolSummary []string
	for ev := range events {
		switch ev.Kind {
		case workflow.EventWorkflowStep:
			o.Log.Debug("workflow_step", map[string]any{"step": ev.Step, "status": string(ev.Status)})
			if o.Debug {
				fmt.Fprintf(o.Out, "[%s %s]\n", ev.Step, ev.Status)
			}
		case workflow.EventToolExecuting:
			o.Log.Event("tool_executing", map[string]any{"tool": ev.ToolName})
			toolSummary = append(toolSummary, ev.ToolName)
		case workflow.EventText:
			if streaming {
				fmt.Fprint(o.Out, ev.Text)
			}
		case workflow.EventStreamingComplete:
			o.Log.Event("turn_complete", map[string]any{"tools_used": len(toolSummary)})
			if !streaming {
				if len(toolSummary) > 0 {
					fmt.Fprintf(o.Out, "[used tools: %s]\n", strings.Join(toolSummary, ", "))
				}
				fmt.Fprintln(o.Out, ev.FinalResponse)
			} else {
				fmt.Fprintln(o.Out)
			}
		case workflow.EventError:
			o.Log.Error("turn_error", map[string]any{"error": ev.ErrorMessage})
			fmt.Fprintf(o.Out, "error: %s\n", ev.ErrorMessage)
		}
	}

	if result.Err != nil && result.Err.Kind != workflow.ErrLoopLimitExceeded {
		return result.Final, result.Err
	}
	o.messages = result.Messages
	return result.Final, nil
}
