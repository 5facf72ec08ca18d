package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Satvik374/Study-App/internal/cli"
	"github.com/Satvik374/Study-App/internal/cloze"
	"github.com/Satvik374/Study-App/internal/diff"
)

func newDiffCommand() *cobra.Command {
	var remote bool
	command := &cobra.Command{
		Use:   "diff <reference> <candidate>",
		Short: "Compare an answer with its reference word by word",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result diff.Result
			if !remote {
				result = diff.Align(args[0], args[1])
			} else {
				cfg, err := loadConfig()
				if err != nil {
					return err
				}
				remoteClient, err := newRemoteClient(cfg)
				if err != nil {
					return err
				}
				defer func() {
					_ = remoteClient.Close()
				}()

				res, err := remoteClient.ComputeDiff(cmd.Context(), args[0], args[1])
				if err != nil {
					return fmt.Errorf("client.ComputeDiff() > %w", err)
				}
				result = diff.Result{Ops: res.Ops, Score: res.Score}
			}

			cli.NewInteractiveQuizCLI(cmd.InOrStdin(), cmd.OutOrStdout()).PrintDiff(result)
			return nil
		},
	}
	command.Flags().BoolVar(&remote, "remote", false, "Compute the diff on the configured study server")

	return command
}

func newBlanksCommand() *cobra.Command {
	var remote bool
	command := &cobra.Command{
		Use:   "blanks <text>",
		Short: "Replace the key words of a text with numbered blanks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				result cloze.Cloze
				err    error
			)
			if remote {
				result, err = remoteBlanks(cmd, args[0])
			} else {
				result, err = cloze.Generate(args[0])
			}
			if err != nil {
				return err
			}

			cli.NewInteractiveQuizCLI(cmd.InOrStdin(), cmd.OutOrStdout()).PrintCloze(result)
			return nil
		},
	}
	command.Flags().BoolVar(&remote, "remote", false, "Generate the blanks on the configured study server")

	return command
}

func remoteBlanks(cmd *cobra.Command, text string) (cloze.Cloze, error) {
	cfg, err := loadConfig()
	if err != nil {
		return cloze.Cloze{}, err
	}
	remoteClient, err := newRemoteClient(cfg)
	if err != nil {
		return cloze.Cloze{}, err
	}
	defer func() {
		_ = remoteClient.Close()
	}()

	res, err := remoteClient.GenerateBlanks(cmd.Context(), text)
	if err != nil {
		return cloze.Cloze{}, fmt.Errorf("client.GenerateBlanks() > %w", err)
	}
	return cloze.Cloze{Display: res.Display, Answers: res.Answers, Original: res.Original}, nil
}
