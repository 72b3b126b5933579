package cmd

import (
	"fmt"
	"os"

	"github.com/jyje/pilot-agent/internal/graphexport"
	"github.com/jyje/pilot-agent/internal/signal"
	"github.com/jyje/pilot-agent/internal/workflow"
	"github.com/spf13/cobra"
)

var agentCmd = &cobra.Command{
	Use:   "agent",
	Short: "Workflow graph introspection and live reconfiguration",
}

var (
	flagExportFormat string
	flagExportOutput string
	flagAIDesc       bool
)

var agentExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Emit the workflow graph as Mermaid or JSON",
	RunE:  runAgentExport,
}

var agentReloadCmd = &cobra.Command{
	Use:   "reload",
	Short: "Re-read the config file and reinitialize the remote tool-provider client",
	Long: `reload re-reads the config file and calls the remote client's configure and
initialize again without exiting the process; unlike "info" it prints only
warnings for dropped server entries and a one-line count of connected
servers, not the full tool/server tables.`,
	RunE: runAgentReload,
}

func init() {
	agentExportCmd.Flags().StringVar(&flagExportFormat, "format", "mermaid", "export format: mermaid, json")
	agentExportCmd.Flags().StringVar(&flagExportOutput, "output", "", "output file path (default .pilot/diagram.md or .json)")
	agentExportCmd.Flags().BoolVar(&flagAIDesc, "ai-description", false, "generate a prose description of the graph via the configured LLM")

	agentCmd.AddCommand(agentExportCmd)
	agentCmd.AddCommand(agentReloadCmd)
}

func runAgentExport(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext()
	defer stop()

	sess, err := bootstrap(ctx, true)
	if err != nil {
		return err
	}
	defer sess.Close()

	graph := workflow.BuildGraph(len(sess.Catalog.List()) > 0)

	var toolInfos []graphexport.ToolInfo
	for _, t := range sess.Catalog.List() {
		ti := graphexport.ToolInfo{Name: t.Name, Description: t.Description, Type: "basic"}
		if t.Server != "" {
			ti.Type = "mcp"
			ti.Server = t.Server
		}
		toolInfos = append(toolInfos, ti)
	}

	doc := graphexport.Document{Graph: graph, Tools: toolInfos}
	if flagAIDesc {
		doc.Description, err = generateGraphDescription(ctx, sess, graph)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not generate AI description: %v\n", err)
		}
	}

	output := flagExportOutput
	var content []byte
	switch flagExportFormat {
	case "mermaid":
		if output == "" {
			output = ".pilot/diagram.md"
		}
		content = []byte(graphexport.RenderMermaid(doc))
	case "json":
		if output == "" {
			output = ".pilot/diagram.json"
		}
		content, err = graphexport.RenderJSON(doc)
		if err != nil {
			return err
		}
	default:
		return fmt.Errorf("unsupported export format: %s (supported: mermaid, json)", flagExportFormat)
	}

	if err := os.MkdirAll(dirOf(output), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	if err := os.WriteFile(output, content, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", output, err)
	}
	fmt.Printf("wrote workflow graph to %s\n", output)
	return nil
}

func runAgentReload(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext()
	defer stop()

	sess, err := bootstrap(ctx, false)
	if err != nil {
		return err
	}
	defer sess.Close()

	warnings := sess.Manager.Configure(sess.Config.MCPServers)
	for _, w := range warnings {
		fmt.Println("warning:", w)
	}
	ok := sess.Manager.Initialize(ctx)
	connected := 0
	for _, s := range sess.Manager.States() {
		if s.Connected {
			connected++
		}
	}
	fmt.Printf("reloaded: %d/%d remote servers connected (ok=%v)\n", connected, len(sess.Config.MCPServers), ok)
	return nil
}
