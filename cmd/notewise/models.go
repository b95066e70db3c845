package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jeanpaul/notewise/internal/health"
	"github.com/jeanpaul/notewise/internal/llm"
	"github.com/jeanpaul/notewise/internal/model"
	"github.com/jeanpaul/notewise/internal/shell"
	"github.com/jeanpaul/notewise/internal/tui"
)

var errUnhealthy = errors.New("backend check failed")

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the backend, the model and the notes folder",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Print(tui.BannerStyle.Render(tui.Banner))
		fmt.Println(tui.TitleStyle.Render("  Health check"))
		fmt.Println()

		sel, err := selectBackend()
		if err != nil {
			return err
		}
		status := health.Check(cmd.Context(), sel)
		shell.PrintHealth(os.Stdout, status)
		fmt.Println()

		file := cfgUsed
		if file == "" {
			file = "defaults (" + configPath() + " not found)"
		}
		fmt.Printf("  %s %s\n", tui.LabelStyle.Render("config:   "), file)

		store := newStore()
		paths, err := store.List(cmd.Context())
		if err != nil {
			fmt.Printf("  %s %s\n", tui.LabelStyle.Render("notes:    "), tui.ErrorStyle.Render(err.Error()))
		} else {
			fmt.Printf("  %s %s (%d notes)\n", tui.LabelStyle.Render("notes:    "), tui.PathStyle.Render(store.Root()), len(paths))
		}
		fmt.Println()

		if !status.OK() {
			return errUnhealthy
		}
		fmt.Println(tui.SuccessStyle.Render("  All good."))
		return nil
	},
}

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List the models installed on the local server",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		sel, err := selectBackend()
		if err != nil {
			return err
		}
		if sel.Kind == llm.KindRemote {
			fmt.Println(tui.HelpStyle.Render("Model listing is only available for the local backend."))
			return nil
		}

		if !sel.Local.IsAvailable(cmd.Context()) {
			return fmt.Errorf("%w: %s", llm.ErrConnectionFailed, sel.Local.Backend().BaseURL)
		}
		models := sel.Local.ListAvailableModels(cmd.Context())
		if len(models) == 0 {
			fmt.Println(tui.HelpStyle.Render("No models installed. Try: notewise pull " + llm.DefaultLocalModel))
			return nil
		}
		current := sel.Local.Backend().Model
		fmt.Println(tui.TitleStyle.Render("Local models"))
		for _, m := range models {
			marker := "  "
			if m == current || m == current+":latest" {
				marker = tui.SuccessStyle.Render("*") + " "
			}
			fmt.Println(marker + m)
		}
		return nil
	},
}

var pullCmd = &cobra.Command{
	Use:   "pull <model>",
	Short: "Download a model to the local server",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr := model.NewManager(localBaseURL(), logger)
		fmt.Printf("%s Pulling %s...\n", tui.SpinnerStyle.Render("●"), args[0])
		err := mgr.Pull(cmd.Context(), args[0], func(p model.PullProgress) {
			if p.Percent > 0 {
				bar := min(int(p.Percent/2), 50)
				fmt.Printf("\r  %s [%s%s] %3.0f%%",
					p.Status,
					tui.SuccessStyle.Render(strings.Repeat("█", bar)),
					strings.Repeat("░", 50-bar),
					p.Percent,
				)
			} else {
				fmt.Printf("\r  %s", p.Status)
			}
		})
		fmt.Println()
		if err != nil {
			return fmt.Errorf("pull %s: %w", args[0], err)
		}
		fmt.Println(tui.SuccessStyle.Render("  Done"))
		return nil
	},
}

var removeCmd = &cobra.Command{
	Use:   "remove <model>",
	Short: "Delete a model from the local server",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr := model.NewManager(localBaseURL(), logger)
		if err := mgr.Remove(cmd.Context(), args[0]); err != nil {
			return fmt.Errorf("remove %s: %w", args[0], err)
		}
		fmt.Println(tui.SuccessStyle.Render("  Removed " + args[0]))
		return nil
	},
}

// localBaseURL is the configured endpoint when the local service is in use.
// A remote base URL never applies to model management.
func localBaseURL() string {
	if strings.EqualFold(cfg.Service, string(llm.KindRemote)) {
		return llm.DefaultLocalBaseURL
	}
	return cfg.BaseURL
}

func init() {
	rootCmd.AddCommand(doctorCmd, modelsCmd, pullCmd, removeCmd)
}
