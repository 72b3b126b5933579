package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/jyje/pilot-agent/internal/session"
	"github.com/jyje/pilot-agent/internal/signal"
	"github.com/jyje/pilot-agent/internal/transcript"
	"github.com/spf13/cobra"
)

var (
	flagOnce     bool
	flagNoStream bool
	flagSave     string
	flagDebug    bool
)

var chatCmd = &cobra.Command{
	Use:   "chat [QUESTION]",
	Short: "Start a chat turn or a continuous conversation",
	Long: `chat dispatches QUESTION (or input read from stdin) to the configured LLM.
With a QUESTION argument or --once it runs a single turn and exits;
otherwise it loops, reading one line at a time, until "/bye" or EOF.`,
	Args: cobra.ArbitraryArgs,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().BoolVar(&flagOnce, "once", false, "force one-shot mode even without a QUESTION argument")
	chatCmd.Flags().BoolVar(&flagNoStream, "no-stream", false, "disable streamed rendering of the final answer")
	chatCmd.Flags().StringVar(&flagSave, "save", "", "write a Markdown transcript to PATH on exit")
	chatCmd.Flags().BoolVar(&flagDebug, "debug", false, "emit workflow_step events and tool-loop diagnostics")
}

func runChat(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext()
	defer stop()

	sess, err := bootstrap(ctx, true)
	if err != nil {
		return err
	}
	defer sess.Close()

	sess.Engine.Debug = sess.Engine.Debug || flagDebug

	var tw *transcript.Writer
	if flagSave != "" {
		tw = transcript.New(nil)
	}

	orch := session.New(sess.Engine, session.Metadata{
		SessionID:    uuid.NewString(),
		ProviderName: sess.Provider.Name(),
		ConfigPath:   flagConfig,
	}, session.NewStdoutSink(os.Stdout), os.Stdin)
	orch.NoStream = flagNoStream
	orch.Debug = flagDebug
	orch.Transcript = tw
	orch.Log = sess.Log

	question := strings.Join(args, " ")

	var runErr error
	if question != "" || flagOnce {
		runErr = orch.RunOnce(ctx, question)
	} else {
		runErr = orch.RunContinuous(ctx)
	}

	if tw != nil {
		if err := tw.Flush(flagSave); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to save transcript: %v\n", err)
		}
	}

	return runErr
}
