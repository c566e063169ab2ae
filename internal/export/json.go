package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/jazz-lnz/tymate/internal/store"
)

type jsonExport struct {
	ExportedAt string     `json:"exported_at"`
	Count      int        `json:"count"`
	Tasks      []jsonTask `json:"tasks"`
}

type jsonTask struct {
	ID               int64  `json:"id"`
	Title            string `json:"title"`
	Source           string `json:"source,omitempty"`
	Category         string `json:"category"`
	DateGiven        string `json:"date_given"`
	DateDue          string `json:"date_due"`
	Status           string `json:"status"`
	EstimatedMinutes int    `json:"estimated_minutes,omitempty"`
	ActualMinutes    int    `json:"actual_minutes,omitempty"`
	CompletedAt      string `json:"completed_at,omitempty"`
	Description      string `json:"description,omitempty"`
}

// ToJSON writes tasks to a pretty-printed JSON file with an export envelope.
func ToJSON(tasks []store.Task, minutes map[int64]int, path string) error {
	export := jsonExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Count:      len(tasks),
	}

	for _, t := range tasks {
		jt := jsonTask{
			ID:          t.ID,
			Title:       t.Title,
			Source:      t.Source,
			Category:    t.Category,
			DateGiven:   t.DateGiven,
			DateDue:     t.DateDue,
			Status:      t.Status,
			Description: t.Description,
		}
		if t.EstimatedMinutes != nil {
			jt.EstimatedMinutes = *t.EstimatedMinutes
		}
		if m, ok := minutes[t.ID]; ok {
			jt.ActualMinutes = m
		}
		if t.CompletedAt != nil {
			jt.CompletedAt = t.CompletedAt.UTC().Format(time.RFC3339)
		}
		export.Tasks = append(export.Tasks, jt)
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}
