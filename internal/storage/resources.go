package storage

import (
	"fmt"
)

// CalculateResourcePaths lists the resource URIs available for a stored
// assessment.
func CalculateResourcePaths(id string, questionCount int) []string {
	paths := []string{
		fmt.Sprintf("assessment://%s", id),
		fmt.Sprintf("assessment://%s/questions", id),
	}
	if questionCount > 0 {
		paths = append(paths,
			fmt.Sprintf("assessment://%s/questions/0", id),
			fmt.Sprintf("assessment://%s/questions/%d", id, questionCount-1),
		)
	}
	return append(paths, fmt.Sprintf("assessment://%s/questions/{index}", id))
}
