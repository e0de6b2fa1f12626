package loadgen

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/google/uuid"

	"github.com/shiftmatch/shiftmatch/internal/domain/availability"
	"github.com/shiftmatch/shiftmatch/internal/domain/geo"
	"github.com/shiftmatch/shiftmatch/internal/domain/timeslot"
	"github.com/shiftmatch/shiftmatch/pkg/logger"
)

// Constants for random number generation.
const (
	randomFloatDivisor = 1000000
	profileTypeDivisor = 6
)

// Seeker home base used both for the test profile and as the center of the
// candidate coordinate spread (San Francisco).
const (
	baseLatitude      = 37.7749
	baseLongitude     = -122.4194
	nearbyJitterDeg   = 0.15 // roughly 10 miles
	commuteJitterDeg  = 0.8  // roughly 55 miles
	farFlungJitterDeg = 8.0  // hundreds of miles
)

// Constants for job score generation ranges on the 0..40 scale.
const (
	avgFitMin    = 12.0
	avgFitRange  = 16.0
	highFitMin   = 28.0
	highFitRange = 8.0
	lowFitMin    = 0.5
	lowFitRange  = 11.5
	eliteFitMin  = 36.0
	eliteFitMax  = 40.0
	wideFitMin   = 0.5
	wideFitRange = 39.5
)

// Constants for candidate profile shape cases.
const (
	caseFullNearby     = 0
	caseFullCommute    = 1
	caseNoLocation     = 2
	caseNoAvailability = 3
	caseFarFlung       = 4
	caseBareMinimum    = 5
)

var weekdayKeys = []string{
	"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday",
}

var slotPool = []timeslot.Slot{
	{Start: "06:00", End: "10:00"},
	{Start: "08:00", End: "12:00"},
	{Start: "09:00", End: "17:00"},
	{Start: "12:00", End: "16:00"},
	{Start: "2:00 PM", End: "6:00 PM"},
	{Start: "17:00", End: "22:00"},
	{Start: "6:00 PM", End: "11:00 PM"},
}

var repeatTypes = []availability.RepeatType{
	availability.RepeatWeekly,
	availability.RepeatWeekly,
	availability.RepeatBiweekly,
	availability.RepeatCustom,
}

// getRandomFloat returns a random float64 between 0.0 and 1.0 using crypto/rand.
func getRandomFloat() float64 {
	n, _ := rand.Int(rand.Reader, big.NewInt(randomFloatDivisor))
	return float64(n.Int64()) / float64(randomFloatDivisor)
}

// getRandomInt returns a random int in [0, max).
func getRandomInt(max int) int {
	n, _ := rand.Int(rand.Reader, big.NewInt(int64(max)))
	return int(n.Int64())
}

// TestProfile returns the seeker profile the load test installs before
// submitting candidates. Every expected score is computed against it.
func TestProfile() ProfileRequest {
	return ProfileRequest{
		Location: &geo.Location{Latitude: baseLatitude, Longitude: baseLongitude},
		Availability: availability.Record{
			{Key: "monday", Entry: availability.DayEntry{
				Slots:  []timeslot.Slot{{Start: "09:00", End: "17:00"}},
				Repeat: availability.RepeatWeekly,
			}},
			{Key: "wednesday", Entry: availability.DayEntry{
				Slots:  []timeslot.Slot{{Start: "09:00", End: "17:00"}},
				Repeat: availability.RepeatWeekly,
			}},
			{Key: "friday", Entry: availability.DayEntry{
				Slots:  []timeslot.Slot{{Start: "08:00", End: "14:00"}},
				Repeat: availability.RepeatWeekly,
			}},
		},
		MaxDistanceMiles: 60,
	}
}

// generateCandidates creates the specified number of candidates with unique ids.
func generateCandidates(ctx context.Context, config *Config, stats *Stats) ([]CandidateRequest, error) {
	logger.Get().Info(ctx, "generating candidates with unique ids", logger.Int("numCandidates", config.NumCandidates))

	candidates := make([]CandidateRequest, config.NumCandidates)

	candidateIDs := make([]string, config.NumCandidates)
	for i := 0; i < config.NumCandidates; i++ {
		candidateIDs[i] = uuid.New().String()
	}

	type candidateResult struct {
		index     int
		candidate CandidateRequest
		err       error
	}

	resultChan := make(chan candidateResult, config.NumCandidates)

	workerCount := minInt(config.Workers, config.NumCandidates)
	perWorker := config.NumCandidates / workerCount

	for worker := 0; worker < workerCount; worker++ {
		start := worker * perWorker
		end := start + perWorker
		if worker == workerCount-1 {
			end = config.NumCandidates // Last worker gets the remainder
		}

		go func(start, end int) {
			for i := start; i < end; i++ {
				select {
				case <-ctx.Done():
					resultChan <- candidateResult{index: i, err: ctx.Err()}
					return
				default:
					resultChan <- candidateResult{index: i, candidate: generateSingleCandidate(candidateIDs[i])}
				}
			}
		}(start, end)
	}

	for i := 0; i < config.NumCandidates; i++ {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("context cancelled during candidate generation: %w", ctx.Err())
		case result := <-resultChan:
			if result.err != nil {
				return nil, fmt.Errorf("failed to generate candidate %d: %w", result.index, result.err)
			}
			candidates[result.index] = result.candidate
		}
	}

	stats.CandidatesGenerated = len(candidates)
	logger.Get().Info(ctx, "generated candidates successfully", logger.Int("count", len(candidates)))

	return candidates, nil
}

// generateSingleCandidate builds one candidate with a randomized shape so
// every scoring path gets exercised: nearby and far locations, rich and
// missing availability, and the full job score range.
func generateSingleCandidate(candidateID string) CandidateRequest {
	c := CandidateRequest{
		CandidateID:   candidateID,
		JobSkillScore: generateJobScore(),
	}

	switch getRandomInt(profileTypeDivisor) {
	case caseFullNearby:
		c.Location = jitteredLocation(nearbyJitterDeg)
		c.Availability = generateAvailability()
	case caseFullCommute:
		c.Location = jitteredLocation(commuteJitterDeg)
		c.Availability = generateAvailability()
	case caseNoLocation:
		c.Availability = generateAvailability()
	case caseNoAvailability:
		c.Location = jitteredLocation(commuteJitterDeg)
	case caseFarFlung:
		c.Location = jitteredLocation(farFlungJitterDeg)
		c.Availability = generateAvailability()
	case caseBareMinimum:
		// id and job score only
	}

	return c
}

// generateJobScore creates a job score with varied distribution.
func generateJobScore() float64 {
	switch getRandomInt(5) {
	case 0, 1:
		// Average fit is the most common
		return avgFitMin + getRandomFloat()*avgFitRange
	case 2:
		return highFitMin + getRandomFloat()*highFitRange
	case 3:
		return lowFitMin + getRandomFloat()*lowFitRange
	case 4:
		return eliteFitMin + getRandomFloat()*(eliteFitMax-eliteFitMin)
	default:
		return wideFitMin + getRandomFloat()*wideFitRange
	}
}

// jitteredLocation spreads candidates around the base coordinates.
func jitteredLocation(jitterDeg float64) *geo.Location {
	return &geo.Location{
		Latitude:  baseLatitude + (getRandomFloat()*2-1)*jitterDeg,
		Longitude: baseLongitude + (getRandomFloat()*2-1)*jitterDeg,
	}
}

// generateAvailability builds a random weekly schedule mixing the two wire
// shapes the API accepts: bare slot arrays and slots-with-repeat objects.
func generateAvailability() availability.Record {
	dayCount := 1 + getRandomInt(4)
	record := make(availability.Record, 0, dayCount)

	used := map[int]bool{}
	for len(record) < dayCount {
		dayIdx := getRandomInt(len(weekdayKeys))
		if used[dayIdx] {
			continue
		}
		used[dayIdx] = true

		slots := []timeslot.Slot{slotPool[getRandomInt(len(slotPool))]}
		if getRandomInt(3) == 0 {
			slots = append(slots, slotPool[getRandomInt(len(slotPool))])
		}

		entry := availability.DayEntry{Slots: slots, Repeat: availability.RepeatCustom}
		if getRandomInt(2) == 0 {
			entry.Repeat = repeatTypes[getRandomInt(len(repeatTypes))]
		}

		record = append(record, availability.DayRecord{
			Key:   weekdayKeys[dayIdx],
			Entry: entry,
		})
	}

	return record
}

// minInt returns the minimum of two integers.
func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
