package cli

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var (
	statusTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	statusKeyStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Width(14)
	statusOKStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	statusErrStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the effective configuration and store health",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}

	cmd.Println(statusTitleStyle.Render("floatd " + version))

	row := func(key, value string) {
		cmd.Printf("%s %s\n", statusKeyStyle.Render(key), value)
	}

	row("dropzone", settings.Dropzone)
	row("state", settings.StateBackend+" ("+settings.StatePath+")")
	row("workers", strconv.Itoa(settings.Workers))

	if settings.Chroma.Enabled {
		row("chroma", statusOKStyle.Render("enabled")+" "+settings.Chroma.BaseURL)
	} else {
		row("chroma", "disabled (in-memory sink)")
	}
	if settings.Ollama.Enabled {
		row("summarizer", statusOKStyle.Render("enabled")+" "+settings.Ollama.Model)
	} else {
		row("summarizer", "disabled")
	}

	store, err := openStateStore(settings)
	if err != nil {
		row("state store", statusErrStyle.Render("unavailable: "+err.Error()))
		return nil
	}
	defer store.Close()
	row("state store", statusOKStyle.Render("ok"))

	return nil
}
