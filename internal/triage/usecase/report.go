package usecase

import (
	"fmt"
	"io"
	"strings"

	"inboxintel/internal/triage/domain"
)

// WriteReport prints a plain-text triage summary to w, ordered by
// urgency (urgent, normal, low, unknown).
func WriteReport(w io.Writer, emails []*domain.ProcessedEmail) {
	sorted := make([]*domain.ProcessedEmail, len(emails))
	copy(sorted, emails)
	domain.SortByUrgency(sorted)

	line := strings.Repeat("=", 60)
	fmt.Fprintln(w, line)
	fmt.Fprintln(w, "SMART EMAIL TRIAGE SUMMARY")
	fmt.Fprintln(w, line)

	if len(sorted) == 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "No new emails to process. You're all caught up!")
		return
	}

	for _, e := range sorted {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "----------------------------------------")
		fmt.Fprintf(w, "ID       : %s\n", e.EmailID)
		fmt.Fprintf(w, "From     : %s\n", e.Sender)
		fmt.Fprintf(w, "Subject  : %s\n", e.Subject)
		fmt.Fprintf(w, "Urgency  : %s\n", strings.ToUpper(string(e.Urgency)))
		fmt.Fprintf(w, "Category : %s\n", e.Category)
		if len(e.Tasks) > 0 {
			fmt.Fprintln(w, "Tasks:")
			for _, t := range e.Tasks {
				fmt.Fprintf(w, "  - %s\n", t.Description)
			}
		} else {
			fmt.Fprintln(w, "Tasks: None detected")
		}
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Suggested Reply Draft:")
		fmt.Fprintln(w, e.ReplyDraft)
		fmt.Fprintln(w, "----------------------------------------")
	}
}
