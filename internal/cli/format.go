package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/BuzzLyutic/tasklist/internal/model"
)

// formatTask writes one ls line:
// "{N:>4}  [x] {TITLE}  {DATE}  {PRIORITY}  {SHORTID}"
func formatTask(w io.Writer, num int, t model.Task) {
	mark := " "
	if t.Status {
		mark = "x"
	}
	fmt.Fprintf(w, "%4d  [%s] %s  %s  %s  %s\n", num, mark, normalizeTitle(t.Title), t.Date, t.Priority, shortID(t.ID))
}

func normalizeTitle(title string) string {
	title = strings.ReplaceAll(title, "\r", " ")
	return strings.ReplaceAll(title, "\n", " ")
}
