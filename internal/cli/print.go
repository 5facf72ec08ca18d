package cli

import (
	"github.com/Satvik374/Study-App/internal/cloze"
	"github.com/Satvik374/Study-App/internal/diff"
	"github.com/Satvik374/Study-App/internal/statistics"
)

// PrintDiff shows how a candidate answer lines up with its reference.
func (cli *InteractiveQuizCLI) PrintDiff(result diff.Result) {
	if result.IsPerfect() {
		cli.printf("%s\n", cli.good.Sprintf("✅ Perfect! %d%%", statistics.Percent(result.Score)))
	} else {
		cli.printf("%s\n", cli.bad.Sprintf("❌ %d%% correct", statistics.Percent(result.Score)))
	}
	cli.printf("%s\n", cli.renderDiff(result))
}

func (cli *InteractiveQuizCLI) PrintCloze(c cloze.Cloze) {
	cli.printf("%s\n", cli.bold.Sprint(c.Display))
	for _, blank := range c.Answers {
		cli.printf("  %s\n", blank.Label())
	}
}
