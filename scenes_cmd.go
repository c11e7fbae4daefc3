package main

import (
	"fmt"

	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"
	"github.com/spf13/cobra"

	"github.com/dgnsrekt/storytime/scene"
	"github.com/dgnsrekt/storytime/story"
)

var (
	showPrompts bool

	scenesCmd = &cobra.Command{
		Use:     "scenes FILE",
		Short:   "List a story's illustration scenes",
		Long:    paragraph(fmt.Sprintf("\nSplit a story into %s and print them, optionally with their generated illustration prompts.", keyword("illustration scenes"))),
		Example: paragraph("storytime scenes bedtime.yaml\nstorytime scenes --prompts bedtime.yaml"),
		Args:    cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			s, err := story.Load(args[0])
			if err != nil {
				return err
			}

			extractor := scene.NewExtractor(scene.DefaultOptions(), scene.DefaultComposer())
			scenes := extractor.Extract(s)
			if len(scenes) == 0 {
				return fmt.Errorf("no scenes found in %s", args[0])
			}

			wrap := int(width) - 4
			if wrap < 20 {
				wrap = 76
			}
			for _, sc := range scenes {
				fmt.Printf("%s\n", keyword(fmt.Sprintf("Scene %d", sc.Index)))
				fmt.Println(indent.String(wordwrap.String(sc.Text, wrap), 2))
				if showPrompts {
					fmt.Println(indent.String(wordwrap.String(sc.Prompt, wrap), 4))
				}
				fmt.Println()
			}
			return nil
		},
	}
)

func init() {
	scenesCmd.Flags().BoolVarP(&showPrompts, "prompts", "p", false, "print the illustration prompt for each scene")
}
