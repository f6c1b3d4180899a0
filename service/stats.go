package service

import "grievancedesk-backend/models"

// ComputeStats folds the record set into counts per enumerated value for
// each dimension. It is a pure read-only projection, recomputed fully on
// every call; values with zero occurrences are absent from their map.
func ComputeStats(grievances []*models.Grievance) *models.GrievanceStats {
	stats := &models.GrievanceStats{
		Total:       len(grievances),
		ByCategory:  make(map[models.Category]int),
		ByUrgency:   make(map[models.Urgency]int),
		BySentiment: make(map[models.Sentiment]int),
		ByStatus:    make(map[models.Status]int),
	}

	for _, grievance := range grievances {
		stats.ByCategory[grievance.Category]++
		stats.ByUrgency[grievance.Urgency]++
		stats.BySentiment[grievance.Sentiment]++
		stats.ByStatus[grievance.Status]++
	}

	return stats
}
