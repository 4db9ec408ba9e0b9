// Package matcher decides which enrolled students are present in a group
// photo, given the embeddings of all detected faces and the roster of
// reference embeddings.
package matcher

import (
	"errors"
	"math"

	"github.com/google/uuid"

	"github.com/saturnino-fabrica-de-software/chamada/internal/domain"
	"github.com/saturnino-fabrica-de-software/chamada/internal/embedding"
	"github.com/saturnino-fabrica-de-software/chamada/internal/provider"
)

// DefaultThreshold is the minimum cosine similarity to accept a match.
const DefaultThreshold = 0.6

// Reference é a entrada do roster: um aluno elegível para matching.
// Alunos sem embedding de referência ficam fora do roster (e fora da
// partição de ausentes — não há contra o que compará-los).
type Reference struct {
	StudentID  uuid.UUID
	Name       string
	RollNumber string
	Embedding  []float64
}

// Outcome is the full result of matching one photo against one roster.
type Outcome struct {
	// Matches holds one entry per matched face, in face-index order.
	// A face whose best similarity stays below the threshold produces no
	// entry; it is not recorded as "unknown person".
	Matches []domain.FaceMatch

	// PresentIDs and AbsentIDs partition the roster: their union is the
	// roster id set and their intersection is empty. Both keep roster
	// order. Duplicate matches collapse into a single present id.
	PresentIDs []uuid.UUID
	AbsentIDs  []uuid.UUID

	// Scores holds the best similarity found for each detected face, in
	// input order, matched or not. Zero when no reference was comparable.
	// Annotation uses it to label below-threshold faces with their score.
	Scores []float64

	FaceCount  int
	RosterSize int
}

// Matcher applies the similarity threshold policy over a roster.
type Matcher struct {
	threshold float64
}

func New(threshold float64) *Matcher {
	return &Matcher{threshold: threshold}
}

func NewDefault() *Matcher {
	return New(DefaultThreshold)
}

// Match computes the best roster assignment for each detected face,
// independently per face (greedy, no one-to-one constraint).
//
// Tie-break is roster order: the running maximum is only replaced on a
// strictly greater similarity, so the first of equally scored references
// wins. Two faces may both match the same student; downstream attendance
// only adds the id to a set, so duplicates are harmless there, but the
// Matches list keeps both attributions.
//
// Pairs that cannot be compared (dimension mismatch, degenerate vector)
// are skipped; they never abort the whole pass.
func (m *Matcher) Match(faces []provider.DetectedFace, roster []Reference) Outcome {
	out := Outcome{
		Matches:    []domain.FaceMatch{},
		PresentIDs: []uuid.UUID{},
		AbsentIDs:  []uuid.UUID{},
		Scores:     make([]float64, 0, len(faces)),
		FaceCount:  len(faces),
		RosterSize: len(roster),
	}

	present := make(map[uuid.UUID]bool, len(roster))

	for _, face := range faces {
		best := -1
		bestSim := math.Inf(-1)

		for i, ref := range roster {
			sim, err := embedding.Similarity(face.Embedding, ref.Embedding)
			if err != nil && !errors.Is(err, embedding.ErrZeroNorm) {
				// comparação impossível para este par; segue o baile
				continue
			}
			if sim > bestSim {
				bestSim = sim
				best = i
			}
		}

		if best < 0 {
			out.Scores = append(out.Scores, 0)
			continue
		}
		out.Scores = append(out.Scores, bestSim)

		if bestSim < m.threshold {
			continue
		}

		ref := roster[best]
		out.Matches = append(out.Matches, domain.FaceMatch{
			FaceIndex:   face.Index,
			StudentID:   ref.StudentID,
			StudentName: ref.Name,
			RollNumber:  ref.RollNumber,
			Similarity:  bestSim,
			Box:         [4]int{face.Box.X1, face.Box.Y1, face.Box.X2, face.Box.Y2},
		})
		present[ref.StudentID] = true
	}

	for _, ref := range roster {
		if present[ref.StudentID] {
			out.PresentIDs = append(out.PresentIDs, ref.StudentID)
		} else {
			out.AbsentIDs = append(out.AbsentIDs, ref.StudentID)
		}
	}

	return out
}
