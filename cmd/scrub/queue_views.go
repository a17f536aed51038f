package main

import (
	"fmt"
	"strings"
	"time"

	"scrub/internal/queue"
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiBlue   = "\x1b[34m"
)

type queueItemView struct {
	ID           int64   `json:"id"`
	Title        string  `json:"title"`
	SourcePath   string  `json:"source_path"`
	Status       string  `json:"status"`
	Progress     float64 `json:"progress_percent"`
	ProgressNote string  `json:"progress_message,omitempty"`
	Statements   int     `json:"statements"`
	Batches      int     `json:"batches"`
	BatchesDone  int     `json:"batches_done"`
	Warnings     int     `json:"warnings"`
	RemovedWords int     `json:"removed_words"`
	OutputPath   string  `json:"output_path,omitempty"`
	ErrorMessage string  `json:"error,omitempty"`
	ReviewReason string  `json:"review_reason,omitempty"`
	CreatedAt    string  `json:"created_at"`
	UpdatedAt    string  `json:"updated_at"`
}

func newQueueItemView(item *queue.Item) queueItemView {
	return queueItemView{
		ID:           item.ID,
		Title:        item.Title,
		SourcePath:   item.SourcePath,
		Status:       string(item.Status),
		Progress:     item.ProgressPercent,
		ProgressNote: item.ProgressMessage,
		Statements:   item.StatementCount,
		Batches:      item.BatchCount,
		BatchesDone:  item.BatchesDone,
		Warnings:     item.WarningCount,
		RemovedWords: item.RemovedWords,
		OutputPath:   item.OutputPath,
		ErrorMessage: item.ErrorMessage,
		ReviewReason: item.ReviewReason,
		CreatedAt:    item.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:    item.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func buildQueueListRows(items []*queue.Item, colorize bool) [][]string {
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		title := strings.TrimSpace(item.Title)
		if title == "" {
			if source := strings.TrimSpace(item.SourcePath); source != "" {
				title = queue.DeriveTitle(source)
			} else {
				title = "Unknown"
			}
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", item.ID),
			title,
			colorizeStatus(item.Status, colorize),
			formatProgressCell(item),
			item.CreatedAt.UTC().Format("2006-01-02 15:04"),
		})
	}
	return rows
}

func buildQueueStatusRows(stats map[queue.Status]int, colorize bool) [][]string {
	rows := make([][]string, 0, len(stats))
	for _, status := range queue.AllStatuses() {
		count, ok := stats[status]
		if !ok || count == 0 {
			continue
		}
		rows = append(rows, []string{
			colorizeStatus(status, colorize),
			fmt.Sprintf("%d", count),
		})
	}
	return rows
}

func formatStatusLabel(status queue.Status) string {
	value := strings.TrimSpace(string(status))
	if value == "" {
		return ""
	}
	return strings.ToUpper(value[:1]) + value[1:]
}

func colorizeStatus(status queue.Status, colorize bool) string {
	label := formatStatusLabel(status)
	if !colorize {
		return label
	}
	color := ""
	switch status {
	case queue.StatusCompleted:
		color = ansiGreen
	case queue.StatusFailed:
		color = ansiRed
	case queue.StatusReview:
		color = ansiYellow
	case queue.StatusParsing, queue.StatusCleaning, queue.StatusExporting:
		color = ansiBlue
	}
	if color == "" {
		return label
	}
	return color + label + ansiReset
}

func formatProgressCell(item *queue.Item) string {
	if !item.IsProcessing() {
		return "-"
	}
	note := strings.TrimSpace(item.ProgressMessage)
	if note == "" {
		return fmt.Sprintf("%.0f%%", item.ProgressPercent)
	}
	return fmt.Sprintf("%.0f%% %s", item.ProgressPercent, note)
}
