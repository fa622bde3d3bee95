package services

import (
	"time"

	"github.com/thebell/bellstaff-backend/internal/models"
)

// DateBucket names a local calendar window for task filtering
type DateBucket string

const (
	BucketAll       DateBucket = "all"
	BucketToday     DateBucket = "today"
	BucketYesterday DateBucket = "yesterday"
	BucketWeek      DateBucket = "week"
	BucketMonth     DateBucket = "month"
)

// IsValid reports whether the bucket is a known value
func (b DateBucket) IsValid() bool {
	switch b {
	case BucketAll, BucketToday, BucketYesterday, BucketWeek, BucketMonth:
		return true
	}
	return false
}

// BucketBounds resolves a bucket to a half-open [after, before) window in
// the given location. Day boundaries are local midnights, so "today"
// flips at the hotel's midnight rather than UTC's. Zero times mean
// unbounded.
func BucketBounds(bucket DateBucket, now time.Time, loc *time.Location) (after, before time.Time) {
	if loc == nil {
		loc = time.Local
	}
	local := now.In(loc)
	midnight := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)

	switch bucket {
	case BucketToday:
		return midnight, midnight.AddDate(0, 0, 1)
	case BucketYesterday:
		return midnight.AddDate(0, 0, -1), midnight
	case BucketWeek:
		return midnight.AddDate(0, 0, -6), midnight.AddDate(0, 0, 1)
	case BucketMonth:
		return time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, loc), midnight.AddDate(0, 0, 1)
	}
	return time.Time{}, time.Time{}
}

// FilterByCategory keeps tasks whose title buckets into the category.
// Category is derived from the title, so this runs in memory after the
// database filters.
func FilterByCategory(tasks []models.Task, category models.TaskCategory) []models.Task {
	if category == "" {
		return tasks
	}
	filtered := make([]models.Task, 0, len(tasks))
	for _, task := range tasks {
		if task.Category() == category {
			filtered = append(filtered, task)
		}
	}
	return filtered
}
