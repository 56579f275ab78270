package services

import (
	"fmt"

	"github.com/yungbote/lifelessons-backend/internal/data/repos"
	types "github.com/yungbote/lifelessons-backend/internal/domain"
	"github.com/yungbote/lifelessons-backend/internal/platform/dbctx"
)

type toggleOutcome int

const (
	toggleNoop toggleOutcome = iota
	toggleAdded
	toggleRemoved
)

func (o toggleOutcome) String() string {
	switch o {
	case toggleAdded:
		return "added"
	case toggleRemoved:
		return "removed"
	default:
		return "noop"
	}
}

func (o toggleOutcome) sign() int {
	switch o {
	case toggleAdded:
		return 1
	case toggleRemoved:
		return -1
	default:
		return 0
	}
}

// toggleSpec names one membership relation and every counter that moves
// with it. Deltas are per unit and get the outcome's sign.
type toggleSpec struct {
	name          string
	members       repos.MembershipRepo
	lessonCounter string
	actorDeltas   map[string]int
	creatorDeltas map[string]int
}

type toggler struct {
	lessons repos.LessonRepo
	users   repos.UserRepo
}

// toggle flips actor's membership and applies the paired counter deltas.
// It must run inside a transaction. When the insert conflicts and the
// delete finds nothing, a concurrent toggle already flipped the row back;
// nothing is counted and toggleNoop is returned.
func (t toggler) toggle(dbc dbctx.Context, spec toggleSpec, lesson *types.Lesson, actor string) (toggleOutcome, error) {
	added, err := spec.members.Add(dbc, lesson.ID, actor)
	if err != nil {
		return toggleNoop, fmt.Errorf("%s add: %w", spec.name, err)
	}
	outcome := toggleAdded
	if !added {
		removed, err := spec.members.Remove(dbc, lesson.ID, actor)
		if err != nil {
			return toggleNoop, fmt.Errorf("%s remove: %w", spec.name, err)
		}
		if !removed {
			return toggleNoop, nil
		}
		outcome = toggleRemoved
	}

	sign := outcome.sign()
	if err := t.lessons.AdjustCounter(dbc, lesson.ID, spec.lessonCounter, sign); err != nil {
		return toggleNoop, fmt.Errorf("%s lesson counter: %w", spec.name, err)
	}
	if _, err := t.users.AdjustStats(dbc, actor, scaleDeltas(spec.actorDeltas, sign)); err != nil {
		return toggleNoop, fmt.Errorf("%s actor stats: %w", spec.name, err)
	}
	if creator := lesson.Creator.Email; creator != "" {
		if _, err := t.users.AdjustStats(dbc, creator, scaleDeltas(spec.creatorDeltas, sign)); err != nil {
			return toggleNoop, fmt.Errorf("%s creator stats: %w", spec.name, err)
		}
	}
	return outcome, nil
}

func scaleDeltas(deltas map[string]int, sign int) map[string]int {
	out := make(map[string]int, len(deltas))
	for col, d := range deltas {
		out[col] = d * sign
	}
	return out
}
