package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stackcare/stackcare-backend/internal/data/repos"
	"github.com/stackcare/stackcare-backend/internal/pkg/logger"
	"github.com/stackcare/stackcare-backend/internal/types"
)

// DoseService is the projection at the heart of the adherence engine: it
// expands active weekly schedules into the dose slots expected on a calendar
// date and reconciles them against the dose log. Slots are derived, never
// stored, so schedule edits stay retroactively consistent with past-day
// queries.
type DoseService interface {
	ResolveDay(ctx context.Context, userID uuid.UUID, date string) ([]types.DoseSlot, error)
}

type doseService struct {
	db           *gorm.DB
	log          *logger.Logger
	scheduleRepo repos.ScheduleRepo
	doseLogRepo  repos.DoseLogRepo
}

func NewDoseService(db *gorm.DB, log *logger.Logger, scheduleRepo repos.ScheduleRepo, doseLogRepo repos.DoseLogRepo) DoseService {
	return &doseService{
		db:           db,
		log:          log.With("service", "DoseService"),
		scheduleRepo: scheduleRepo,
		doseLogRepo:  doseLogRepo,
	}
}

func (ds *doseService) ResolveDay(ctx context.Context, userID uuid.UUID, date string) ([]types.DoseSlot, error) {
	day, err := parseDate(date)
	if err != nil {
		return nil, err
	}
	weekday := int(day.Weekday())

	rows, err := ds.scheduleRepo.ActiveSlotsForWeekday(ctx, nil, userID, weekday)
	if err != nil {
		return nil, fmt.Errorf("load expected slots: %w", err)
	}
	if len(rows) == 0 {
		return []types.DoseSlot{}, nil
	}

	dayStart, dayEnd := dayBounds(day)
	logs, err := ds.doseLogRepo.ListForUserOnDay(ctx, nil, userID, dayStart, dayEnd)
	if err != nil {
		return nil, fmt.Errorf("load dose logs: %w", err)
	}

	// Logs come back most recent first; first write per slot key wins.
	logsBySlot := make(map[string]*types.DoseLog, len(logs))
	for _, l := range logs {
		key := slotKey(l.UserSupplementID, l.ScheduledTime)
		if _, ok := logsBySlot[key]; !ok {
			logsBySlot[key] = l
		}
	}

	slots := make([]types.DoseSlot, 0, len(rows))
	seen := make(map[string]bool, len(rows))
	for _, row := range rows {
		key := slotKey(row.UserSupplementID, row.TimeOfDay)
		if seen[key] {
			continue
		}
		seen[key] = true

		slot := types.DoseSlot{
			ID:               key,
			UserSupplementID: row.UserSupplementID,
			SupplementID:     row.SupplementID,
			SupplementName:   row.SupplementName,
			SupplementBrand:  row.SupplementBrand,
			ScheduledTime:    row.TimeOfDay,
			TimeLabel:        timeLabel(hourOf(row.TimeOfDay)),
		}
		if l, ok := logsBySlot[key]; ok && !l.Skipped {
			takenAt := l.TakenAt
			logID := l.ID
			slot.Taken = true
			slot.TakenAt = &takenAt
			slot.LogID = &logID
		}
		slots = append(slots, slot)
	}
	return slots, nil
}

func slotKey(userSupplementID uuid.UUID, timeOfDay string) string {
	return userSupplementID.String() + "-" + timeOfDay
}

func hourOf(timeOfDay string) int {
	parts := strings.SplitN(timeOfDay, ":", 2)
	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return 8
	}
	return hour
}

// timeLabel is a presentation aid derived purely from the hour, never a
// scheduling input.
func timeLabel(hour int) string {
	switch {
	case hour >= 6 && hour < 12:
		return "morning"
	case hour >= 12 && hour < 18:
		return "afternoon"
	case hour >= 18 && hour < 22:
		return "evening"
	default:
		return "bedtime"
	}
}
