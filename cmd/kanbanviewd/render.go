package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Roelanb/kanbanview/internal/board"
	"github.com/Roelanb/kanbanview/internal/fsutil"
	"github.com/Roelanb/kanbanview/internal/preview"
	"github.com/Roelanb/kanbanview/internal/webview"
)

var (
	renderBoard   string
	renderOut     string
	renderTitle   string
	renderBaseURI string
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render the board document once",
	RunE:  runRender,
}

func init() {
	renderCmd.Flags().StringVar(&renderBoard, "board", "", "board file (overrides board.file)")
	renderCmd.Flags().StringVarP(&renderOut, "out", "o", "", "output file (default stdout)")
	renderCmd.Flags().StringVar(&renderTitle, "title", "", "board title (overrides board.title)")
	renderCmd.Flags().StringVar(&renderBaseURI, "base-uri", "", "resource base URI (overrides assets.baseUri)")
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	logger := newLogger(cfg)
	defer logger.Sync() //nolint:errcheck

	file := cfg.Board.File
	if renderBoard != "" {
		file = renderBoard
	}
	if file == "" {
		return errNoBoardFile
	}
	title := cfg.Board.Title
	if renderTitle != "" {
		title = renderTitle
	}
	baseURI := cfg.Assets.BaseURI
	if renderBaseURI != "" {
		baseURI = renderBaseURI
	}

	b, err := board.Load(file)
	if err != nil {
		return err
	}
	doc, err := preview.Render(b, cfg.Board.Name, title, webview.PrefixResolver(baseURI))
	if err != nil {
		return err
	}

	if renderOut == "" {
		_, err = fmt.Fprint(cmd.OutOrStdout(), doc)
		return err
	}
	if err := fsutil.WriteFileAtomic(renderOut, []byte(doc), 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	logger.Infow("document rendered", "board", file, "out", renderOut, "cards", b.Count())
	return nil
}
