// Package cli runs test sessions in the terminal.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/fatih/color"

	"github.com/Satvik374/Study-App/internal/diff"
	"github.com/Satvik374/Study-App/internal/learning"
)

var errEnd = errors.New("end")

// InteractiveQuizCLI holds the terminal plumbing shared by every quiz.
type InteractiveQuizCLI struct {
	stdinReader  *bufio.Reader
	stdoutWriter io.Writer
	bold         *color.Color
	italic       *color.Color
	good         *color.Color
	bad          *color.Color
	warn         *color.Color
}

func NewInteractiveQuizCLI(stdin io.Reader, stdout io.Writer) *InteractiveQuizCLI {
	return &InteractiveQuizCLI{
		stdinReader:  bufio.NewReader(stdin),
		stdoutWriter: stdout,
		bold:         color.New(color.Bold),
		italic:       color.New(color.Italic),
		good:         color.New(color.FgGreen),
		bad:          color.New(color.FgRed),
		warn:         color.New(color.FgYellow),
	}
}

//go:generate mockgen -source=interactive_quiz_cli.go -destination=../mocks/cli/mock_session.go -package=mock_cli Session,HistoryRecorder

// Session is one step of an interactive quiz. It returns errEnd when the quiz is over.
type Session interface {
	Session(ctx context.Context) error
}

// HistoryRecorder keeps the results of finished tests.
type HistoryRecorder interface {
	AppendHistory(ctx context.Context, entry learning.HistoryEntry, limit int) error
}

func (cli *InteractiveQuizCLI) Run(ctx context.Context, session Session) error {
	ctx, cancel := signal.NotifyContext(
		ctx,
		os.Interrupt,
	)
	defer cancel()

	errCh := make(chan error)
	go func() {
		defer close(errCh)

	LOOP:
		for {
			select {
			case <-ctx.Done():
				break LOOP
			default:
			}

			if err := session.Session(ctx); err != nil {
				if errors.Is(err, errEnd) {
					break
				}
				errCh <- err
				break
			}
		}
	}()
	select {
	case <-ctx.Done():
		cli.printf("Received interrupt signal, exiting...\n")
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("error: %w", err)
		}
	}
	return nil
}

func (cli *InteractiveQuizCLI) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(cli.stdoutWriter, format, args...)
}

// readLine reads one line without its line break. io.EOF is returned only
// when nothing was read.
func (cli *InteractiveQuizCLI) readLine() (string, error) {
	line, err := cli.stdinReader.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// renderDiff shows an answer against the reference. Incorrect words are shown
// as [typed→expected], missing ones as [+expected] and extra ones as [-typed].
func (cli *InteractiveQuizCLI) renderDiff(result diff.Result) string {
	words := make([]string, 0, len(result.Ops))
	for _, op := range result.Ops {
		switch op.Kind {
		case diff.OpEqual:
			words = append(words, op.Word)
		case diff.OpIncorrect:
			words = append(words, "["+cli.renderHint(op.Expected, op.Got)+"→"+cli.good.Sprint(op.Expected)+"]")
		case diff.OpMissing:
			words = append(words, cli.warn.Sprint("[+"+op.Expected+"]"))
		case diff.OpExtra:
			words = append(words, cli.bad.Sprint("[-"+op.Got+"]"))
		}
	}
	return strings.Join(words, " ")
}

// renderHint paints the characters of a typed word that do not belong in red.
func (cli *InteractiveQuizCLI) renderHint(expected, got string) string {
	var b strings.Builder
	for _, segment := range diff.Hint(expected, got) {
		switch segment.Kind {
		case diff.HintKeep:
			b.WriteString(segment.Text)
		case diff.HintDrop:
			b.WriteString(cli.bad.Sprint(segment.Text))
		}
	}
	return b.String()
}
