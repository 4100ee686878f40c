package allocation

import (
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	types "github.com/yungbote/roomie-backend/internal/domain"
	"github.com/yungbote/roomie-backend/internal/ml/features"
	"github.com/yungbote/roomie-backend/internal/platform/apierr"
	"github.com/yungbote/roomie-backend/internal/platform/logger"
)

const (
	StrategyCompatibility = "compatibility_first"
	StrategyBudget        = "budget_first"
	StrategyLocation      = "location_first"
	StrategyBalanced      = "balanced"
)

// Thresholds tunes the balanced-strategy affinity and group sizing.
type Thresholds struct {
	MaxGroupSize     int     `yaml:"max_group_size"`
	BudgetStretch    float64 `yaml:"budget_stretch"`
	BudgetFitBonus   float64 `yaml:"budget_fit_bonus"`
	BudgetNearBonus  float64 `yaml:"budget_near_bonus"`
	LocationBonus    float64 `yaml:"location_bonus"`
	AnyLocationBonus float64 `yaml:"any_location_bonus"`
	AmenitiesBonus   float64 `yaml:"amenities_bonus"`
	SocialBonus      float64 `yaml:"social_bonus"`
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		MaxGroupSize:     4,
		BudgetStretch:    1.2,
		BudgetFitBonus:   0.4,
		BudgetNearBonus:  0.2,
		LocationBonus:    0.3,
		AnyLocationBonus: 0.15,
		AmenitiesBonus:   0.1,
		SocialBonus:      0.2,
	}
}

// Allocator assigns users to rooms under one of four policies. Running out
// of rooms is a reported outcome, never an error.
type Allocator struct {
	log *logger.Logger
	th  Thresholds
}

func New(log *logger.Logger, th Thresholds) *Allocator {
	if th.MaxGroupSize <= 0 {
		th = DefaultThresholds()
	}
	return &Allocator{log: log.With("component", "Allocator"), th: th}
}

func (a *Allocator) Allocate(users []*types.UserProfile, rooms []*types.Room, strategy string) (*types.AllocationResult, error) {
	var records []types.AllocationRecord
	switch strategy {
	case StrategyCompatibility:
		records = a.byCompatibility(users, rooms)
	case StrategyBudget:
		records = a.byBudget(users, rooms)
	case StrategyLocation:
		records = a.byLocation(users, rooms)
	case StrategyBalanced:
		records = a.balanced(users, rooms)
	default:
		return nil, apierr.New(http.StatusBadRequest, apierr.CodeUnknownStrategy,
			fmt.Errorf("unknown allocation strategy: %q", strategy))
	}

	allocated := 0
	for _, r := range records {
		if r.Assigned {
			allocated++
		}
	}
	a.log.Info("allocation computed",
		"strategy", strategy, "users", len(users), "rooms", len(rooms), "allocated", allocated)
	return &types.AllocationResult{
		Strategy:       strategy,
		Records:        records,
		TotalUsers:     len(users),
		TotalRooms:     len(rooms),
		AllocatedUsers: allocated,
		Timestamp:      time.Now().UTC(),
	}, nil
}

// byCompatibility forms greedy compatibility groups (capped at
// MaxGroupSize), then walks rooms in descending capacity: a group takes a
// room only when capacity suffices, otherwise its members split one per
// subsequent room. Each room is consumed at most once, so capacity is
// never exceeded.
func (a *Allocator) byCompatibility(users []*types.UserProfile, rooms []*types.Room) []types.AllocationRecord {
	groups := a.groupByCompatibility(users)

	sorted := append([]*types.Room(nil), rooms...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Capacity > sorted[j].Capacity })

	var records []types.AllocationRecord
	placed := make(map[uuid.UUID]bool)
	roomIdx := 0

	for _, group := range groups {
		if roomIdx < len(sorted) && sorted[roomIdx].Capacity >= len(group) {
			room := sorted[roomIdx]
			for _, u := range group {
				records = append(records, assigned(u, room, types.ReasonCompatibilityGroup, len(group), 0))
				placed[u.ID] = true
			}
			roomIdx++
			continue
		}
		for _, u := range group {
			if roomIdx < len(sorted) {
				records = append(records, assigned(u, sorted[roomIdx], types.ReasonCompatibilitySplit, 1, 0))
				placed[u.ID] = true
				roomIdx++
			} else {
				records = append(records, unassigned(u, types.ReasonNoRoomsAvailable))
				placed[u.ID] = true
			}
		}
	}

	// Users the grouping pass never reached take remaining rooms one at a
	// time.
	for _, u := range users {
		if placed[u.ID] {
			continue
		}
		if roomIdx < len(sorted) {
			records = append(records, assigned(u, sorted[roomIdx], types.ReasonRemainingUser, 1, 0))
			roomIdx++
		} else {
			records = append(records, unassigned(u, types.ReasonNoRoomsAvailable))
		}
	}
	return records
}

func (a *Allocator) groupByCompatibility(users []*types.UserProfile) [][]*types.UserProfile {
	var groups [][]*types.UserProfile
	used := make(map[uuid.UUID]bool)

	for i, u1 := range users {
		if used[u1.ID] {
			continue
		}
		group := []*types.UserProfile{u1}
		used[u1.ID] = true

		for j, u2 := range users {
			if j == i || used[u2.ID] {
				continue
			}
			if features.GroupCompatible(u1, u2) {
				group = append(group, u2)
				used[u2.ID] = true
				if len(group) >= a.th.MaxGroupSize {
					break
				}
			}
		}
		groups = append(groups, group)
	}
	return groups
}

// byBudget runs a two-pointer match over users sorted by budget ceiling
// and rooms sorted by price.
func (a *Allocator) byBudget(users []*types.UserProfile, rooms []*types.Room) []types.AllocationRecord {
	sortedUsers := append([]*types.UserProfile(nil), users...)
	sort.SliceStable(sortedUsers, func(i, j int) bool {
		return ParseBudget(sortedUsers[i].BudgetRange) < ParseBudget(sortedUsers[j].BudgetRange)
	})
	sortedRooms := append([]*types.Room(nil), rooms...)
	sort.SliceStable(sortedRooms, func(i, j int) bool {
		return sortedRooms[i].MonthlyRent < sortedRooms[j].MonthlyRent
	})

	// Rooms are offered in price order to users in budget order. A room the
	// poorest remaining user cannot afford is withdrawn from the pool, and
	// users left once the pool empties are over budget.
	var records []types.AllocationRecord
	ui, ri := 0, 0
	for ui < len(sortedUsers) && ri < len(sortedRooms) {
		user := sortedUsers[ui]
		room := sortedRooms[ri]
		if room.MonthlyRent <= ParseBudget(user.BudgetRange) {
			records = append(records, assigned(user, room, types.ReasonBudgetMatch, 1, 0))
			ui++
			ri++
		} else {
			ri++
		}
	}
	for ; ui < len(sortedUsers); ui++ {
		records = append(records, unassigned(sortedUsers[ui], types.ReasonBudgetTooLow))
	}
	return records
}

// byLocation buckets users by stated preference and consumes rooms in
// ascending floor order across the buckets.
func (a *Allocator) byLocation(users []*types.UserProfile, rooms []*types.Room) []types.AllocationRecord {
	buckets := make(map[string][]*types.UserProfile)
	var order []string
	for _, u := range users {
		loc := strings.TrimSpace(strings.ToLower(u.LocationPreference))
		if loc == "" {
			loc = "any"
		}
		if _, ok := buckets[loc]; !ok {
			order = append(order, loc)
		}
		buckets[loc] = append(buckets[loc], u)
	}
	sort.Strings(order)

	sortedRooms := append([]*types.Room(nil), rooms...)
	sort.SliceStable(sortedRooms, func(i, j int) bool {
		return sortedRooms[i].FloorNumber < sortedRooms[j].FloorNumber
	})

	var records []types.AllocationRecord
	ri := 0
	for _, loc := range order {
		for _, u := range buckets[loc] {
			if ri < len(sortedRooms) {
				records = append(records, assigned(u, sortedRooms[ri], types.ReasonLocationMatch, 1, 0))
				ri++
			} else {
				records = append(records, unassigned(u, types.ReasonNoRoomsAvailable))
			}
		}
	}
	return records
}

// balanced scores every (user, room) pair, sorts pairs by affinity and
// greedily takes each pair whose user and room are both still free.
func (a *Allocator) balanced(users []*types.UserProfile, rooms []*types.Room) []types.AllocationRecord {
	type pair struct {
		user  *types.UserProfile
		room  *types.Room
		score float64
	}
	pairs := make([]pair, 0, len(users)*len(rooms))
	for _, u := range users {
		for _, r := range rooms {
			pairs = append(pairs, pair{u, r, a.affinity(u, r)})
		}
	}
	sort.SliceStable(pairs, func(i, j int) bool {
		if pairs[i].score != pairs[j].score {
			return pairs[i].score > pairs[j].score
		}
		if pairs[i].user.ID != pairs[j].user.ID {
			return pairs[i].user.ID.String() < pairs[j].user.ID.String()
		}
		return pairs[i].room.ID.String() < pairs[j].room.ID.String()
	})

	usedUsers := make(map[uuid.UUID]bool)
	usedRooms := make(map[uuid.UUID]bool)
	var records []types.AllocationRecord
	for _, p := range pairs {
		if usedUsers[p.user.ID] || usedRooms[p.room.ID] {
			continue
		}
		records = append(records, assigned(p.user, p.room, types.ReasonBalanced, 1, p.score))
		usedUsers[p.user.ID] = true
		usedRooms[p.room.ID] = true
	}
	for _, u := range users {
		if !usedUsers[u.ID] {
			records = append(records, unassigned(u, types.ReasonNoRoomsAvailable))
		}
	}
	return records
}

// affinity is the balanced-strategy user-room score: budget fit, location
// containment against the floor string, amenities presence, and a bonus
// for social users matched to shared rooms.
func (a *Allocator) affinity(u *types.UserProfile, r *types.Room) float64 {
	var score float64

	budget := ParseBudget(u.BudgetRange)
	switch {
	case r.MonthlyRent <= budget:
		score += a.th.BudgetFitBonus
	case r.MonthlyRent <= budget*a.th.BudgetStretch:
		score += a.th.BudgetNearBonus
	}

	userLoc := strings.TrimSpace(strings.ToLower(u.LocationPreference))
	roomLoc := strconv.Itoa(r.FloorNumber)
	switch {
	case userLoc != "" && userLoc != "any" &&
		(strings.Contains(roomLoc, userLoc) || strings.Contains(userLoc, roomLoc)):
		score += a.th.LocationBonus
	case userLoc == "" || userLoc == "any":
		score += a.th.AnyLocationBonus
	}

	if len(r.Amenities) > 0 && string(r.Amenities) != "[]" && string(r.Amenities) != "null" {
		score += a.th.AmenitiesBonus
	}

	if (u.SocialPreference == "social" || u.SocialPreference == "very_social") && r.RoomType == "shared" {
		score += a.th.SocialBonus
	}
	return score
}

func assigned(u *types.UserProfile, r *types.Room, reason string, groupSize int, score float64) types.AllocationRecord {
	roomID := r.ID
	return types.AllocationRecord{
		UserID:     u.ID,
		UserName:   u.Name,
		RoomID:     &roomID,
		RoomNumber: r.RoomNumber,
		Assigned:   true,
		GroupSize:  groupSize,
		Score:      score,
		Reason:     reason,
	}
}

func unassigned(u *types.UserProfile, reason string) types.AllocationRecord {
	return types.AllocationRecord{
		UserID:    u.ID,
		UserName:  u.Name,
		Assigned:  false,
		GroupSize: 1,
		Reason:    reason,
	}
}
