package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"time"

	"github.com/jazz-lnz/tymate/internal/store"
)

// ToCSV writes tasks to a CSV file. The minutes map carries summed session
// minutes per task id; tasks with no sessions get an empty Actual column.
func ToCSV(tasks []store.Task, minutes map[int64]int, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	// Header
	if err := w.Write([]string{"ID", "Title", "Source", "Category", "Date Given", "Date Due", "Status", "Estimated (min)", "Actual (min)", "Completed At", "Description"}); err != nil {
		return err
	}

	for _, t := range tasks {
		estimated := ""
		if t.EstimatedMinutes != nil {
			estimated = fmt.Sprintf("%d", *t.EstimatedMinutes)
		}
		actual := ""
		if m, ok := minutes[t.ID]; ok && m > 0 {
			actual = fmt.Sprintf("%d", m)
		}
		completed := ""
		if t.CompletedAt != nil {
			completed = t.CompletedAt.UTC().Format(time.RFC3339)
		}

		row := []string{
			fmt.Sprintf("%d", t.ID),
			t.Title,
			t.Source,
			t.Category,
			t.DateGiven,
			t.DateDue,
			t.Status,
			estimated,
			actual,
			completed,
			t.Description,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}
