package scheduling

import (
	"sort"

	"github.com/zatekoja/screeningscheduler/backend/internal/domain/entities"
)

// Prioritize merges the ordered entries of both questionnaire sections into one worklist.
//
// The worklist is sorted by category rank ascending, then by priority descending. The sort is
// stable over an insertion order of mandatory keys (lexical) followed by optional keys (lexical),
// so equal entries always come out the same way. A key ordered in both sections is taken from
// the mandatory one.
func Prioritize(mandatory, optional map[string]entities.ExaminationOrder) []entities.PrioritizedExamination {
	worklist := make([]entities.PrioritizedExamination, 0, len(mandatory)+len(optional))
	seen := make(map[string]struct{}, len(mandatory)+len(optional))

	collect := func(section map[string]entities.ExaminationOrder) {
		for _, key := range sortedKeys(section) {
			order := section[key]
			if !order.Order {
				continue
			}
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}

			category, _ := CategoryOf(key)
			worklist = append(worklist, entities.PrioritizedExamination{
				Key:      key,
				Priority: order.Priority,
				Category: category,
			})
		}
	}
	collect(mandatory)
	collect(optional)

	sort.SliceStable(worklist, func(i, j int) bool {
		rankI, rankJ := CategoryRank(worklist[i].Category), CategoryRank(worklist[j].Category)
		if rankI != rankJ {
			return rankI < rankJ
		}
		return worklist[i].Priority > worklist[j].Priority
	})

	return worklist
}

func sortedKeys(section map[string]entities.ExaminationOrder) []string {
	keys := make([]string, 0, len(section))
	for key := range section {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
