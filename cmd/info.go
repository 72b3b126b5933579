package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/jyje/pilot-agent/internal/catalog"
	"github.com/jyje/pilot-agent/internal/signal"
	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Print version, the tool table, and the remote tool-server table",
	Long: `info attempts a remote tool-provider connection as a side effect, so the
printed server table reflects live status; use "agent reload" for a
reconnect that doesn't also print.`,
	RunE: runInfo,
}

var (
	headerStyle       = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	connectedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	disconnectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

func runInfo(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext()
	defer stop()

	sess, err := bootstrap(ctx, true)
	if err != nil {
		return err
	}
	defer sess.Close()

	if flagOutput == "json" {
		return printInfoJSON(sess)
	}
	printInfoText(sess)
	return nil
}

func printInfoText(sess *appSession) {
	fmt.Println(headerStyle.Render("pilot " + Version))
	fmt.Printf("provider: %s\n\n", sess.Provider.Name())

	fmt.Println(headerStyle.Render("Tools"))
	for _, t := range sess.Catalog.List() {
		origin := "local"
		if t.Origin != catalog.OriginLocal {
			origin = "remote:" + t.Server
		}
		fmt.Printf("  %-24s %-10s %s\n", t.Name, origin, t.Description)
	}

	states := sess.Manager.States()
	if len(states) == 0 {
		return
	}
	fmt.Println()
	fmt.Println(headerStyle.Render("Remote servers"))
	for _, s := range states {
		status := disconnectedStyle.Render("연결 실패")
		if s.Connected {
			status = connectedStyle.Render("연결됨")
		}
		line := fmt.Sprintf("  %-16s %-32s %s", s.Name, s.URL, status)
		if s.LastError != "" {
			line += "  (" + s.LastError + ")"
		}
		fmt.Println(line)
	}
}

type infoToolJSON struct {
	Name        string `json:"name"`
	Origin      string `json:"origin"`
	Description string `json:"description"`
}

type infoServerJSON struct {
	Name      string `json:"name"`
	URL       string `json:"url"`
	Connected bool   `json:"connected"`
	LastError string `json:"last_error,omitempty"`
}

type infoJSON struct {
	Version  string            `json:"version"`
	Provider string            `json:"provider"`
	Tools    []infoToolJSON    `json:"tools"`
	Servers  []infoServerJSON  `json:"mcp_servers"`
}

func printInfoJSON(sess *appSession) error {
	out := infoJSON{Version: Version, Provider: sess.Provider.Name()}
	for _, t := range sess.Catalog.List() {
		origin := "local"
		if t.Origin != catalog.OriginLocal {
			origin = "remote:" + t.Server
		}
		out.Tools = append(out.Tools, infoToolJSON{Name: t.Name, Origin: origin, Description: t.Description})
	}
	for _, s := range sess.Manager.States() {
		out.Servers = append(out.Servers, infoServerJSON{Name: s.Name, URL: s.URL, Connected: s.Connected, LastError: s.LastError})
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
