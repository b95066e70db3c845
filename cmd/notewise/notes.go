package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jeanpaul/notewise/internal/assistant"
	"github.com/jeanpaul/notewise/internal/clip"
	"github.com/jeanpaul/notewise/internal/parse"
	"github.com/jeanpaul/notewise/internal/shell"
	"github.com/jeanpaul/notewise/internal/tui"
)

var (
	searchType    string
	insightsTopic string
	insightsLimit int
)

var addCmd = &cobra.Command{
	Use:   "add [text]",
	Short: "Categorize a note and save it into the notes folder",
	Long: `Add asks the model where a note belongs and saves it there. With no
arguments the note is read from standard input. If the model cannot be
reached the note is saved under unsorted/.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := noteText(args, cmd.InOrStdin(), tui.IsTerminal(os.Stdin))
		if err != nil {
			return err
		}
		return addNote(cmd.Context(), text)
	},
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Find the notes that answer a question",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		asst, err := newAssistant()
		if err != nil {
			return err
		}
		query := strings.Join(args, " ")
		results, err := tui.Wait(cmd.Context(), "Searching your notes", func(ctx context.Context) ([]parse.SearchResult, error) {
			return asst.Search(ctx, query, searchType)
		})
		if err != nil {
			return err
		}
		shell.PrintResults(os.Stdout, results)
		return nil
	},
}

var insightsCmd = &cobra.Command{
	Use:   "insights",
	Short: "Summarize recurring themes across your notes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		asst, err := newAssistant()
		if err != nil {
			return err
		}
		insights, err := tui.Wait(cmd.Context(), "Reading your notes", func(ctx context.Context) ([]string, error) {
			return asst.GenerateInsights(ctx, insightsTopic, insightsLimit)
		})
		if err != nil {
			return err
		}
		shell.PrintInsights(os.Stdout, insights)
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List note files",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		paths, err := newStore().List(cmd.Context())
		if err != nil {
			return err
		}
		for _, p := range paths {
			fmt.Println(p)
		}
		return nil
	},
}

var showCmd = &cobra.Command{
	Use:   "show <path>",
	Short: "Print a note, rendered as Markdown on a terminal",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := newStore().Read(args[0])
		if err != nil {
			return err
		}
		fmt.Print(tui.Markdown(text, tui.DefaultWrap))
		return nil
	},
}

var clipCmd = &cobra.Command{
	Use:   "clip <url>",
	Short: "Save the readable part of a web page as a note",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		page, err := tui.Wait(cmd.Context(), "Fetching "+args[0], func(ctx context.Context) (clip.Page, error) {
			return clip.Fetch(ctx, args[0])
		})
		if err != nil {
			return err
		}
		return addNote(cmd.Context(), page.Note())
	},
}

func addNote(ctx context.Context, text string) error {
	asst, err := newAssistant()
	if err != nil {
		return err
	}
	res, err := tui.Wait(ctx, "Categorizing", func(ctx context.Context) (assistant.AddResult, error) {
		return asst.AddNote(ctx, text)
	})
	if err != nil {
		return err
	}
	shell.PrintAdded(os.Stdout, res)
	return nil
}

// noteText joins args, or reads r when there are none. A terminal on stdin
// with no arguments is an error rather than a silent wait.
func noteText(args []string, r io.Reader, interactive bool) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	if interactive {
		return "", errors.New("nothing to add: pass the note as an argument or pipe it on stdin")
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return string(data), nil
}

func init() {
	searchCmd.Flags().StringVar(&searchType, "type", "", "only consider notes of this kind, e.g. recipe or meeting")
	insightsCmd.Flags().StringVar(&insightsTopic, "topic", "", "focus the analysis on a topic")
	insightsCmd.Flags().IntVar(&insightsLimit, "limit", assistant.DefaultInsightLimit, "number of insights to ask for")

	rootCmd.AddCommand(addCmd, searchCmd, insightsCmd, listCmd, showCmd, clipCmd)
}
