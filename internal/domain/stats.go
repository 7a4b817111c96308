package domain

// ReadingStats aggregates a library's reading activity. Pages read counts a
// completed book's full page count and an in-progress book's bookmark.
type ReadingStats struct {
	TotalBooks       int      `json:"totalBooks"`
	WantToRead       int      `json:"wantToRead"`
	CurrentlyReading int      `json:"currentlyReading"`
	Completed        int      `json:"completed"`
	DidNotFinish     int      `json:"didNotFinish"`
	TotalPagesRead   int      `json:"totalPagesRead"`
	AverageRating    *float64 `json:"averageRating"`
}

// ComputeReadingStats derives stats from a set of books.
func ComputeReadingStats(books []*Book) ReadingStats {
	stats := ReadingStats{TotalBooks: len(books)}

	ratingSum := 0
	ratingCount := 0

	for _, b := range books {
		switch b.ReadingStatus {
		case StatusWantToRead:
			stats.WantToRead++
		case StatusReading:
			stats.CurrentlyReading++
		case StatusCompleted:
			stats.Completed++
		case StatusDidNotFinish:
			stats.DidNotFinish++
		}

		if b.ReadingStatus == StatusCompleted {
			stats.TotalPagesRead += b.PageCount
		} else {
			stats.TotalPagesRead += b.CurrentPage
		}

		if b.Rating != nil {
			ratingSum += *b.Rating
			ratingCount++
		}
	}

	if ratingCount > 0 {
		avg := float64(ratingSum) / float64(ratingCount)
		stats.AverageRating = &avg
	}

	return stats
}

// QuotaStatus reports how many anonymous-device book slots are used.
type QuotaStatus struct {
	Limit           int  `json:"limit"`
	Used            int  `json:"used"`
	Remaining       int  `json:"remaining"`
	RequiresAccount bool `json:"requiresAccount"`
	Unlimited       bool `json:"unlimited,omitempty"`
}

// NewQuotaStatus computes quota status for a device with used books.
func NewQuotaStatus(limit, used int) QuotaStatus {
	remaining := limit - used
	if remaining < 0 {
		remaining = 0
	}
	return QuotaStatus{
		Limit:           limit,
		Used:            used,
		Remaining:       remaining,
		RequiresAccount: used >= limit,
	}
}

// UnlimitedQuota is the quota status for authenticated accounts.
func UnlimitedQuota() QuotaStatus {
	return QuotaStatus{Unlimited: true}
}
