package lifecycle

import "github.com/disserto/disserto-api/model"

// Scores are the five evaluation criteria. A nil score counts as zero.
type Scores struct {
	Presentation   *float64
	Content        *float64
	Research       *float64
	Innovation     *float64
	Implementation *float64
}

// Mean returns the average of the five scores with missing ones as zero.
func (s Scores) Mean() float64 {
	sum := 0.0
	for _, v := range []*float64{s.Presentation, s.Content, s.Research, s.Innovation, s.Implementation} {
		if v != nil {
			sum += *v
		}
	}
	return sum / 5
}

// GradeFor maps an average score onto a letter grade.
func GradeFor(avg float64) model.Grade {
	switch {
	case avg >= 90:
		return model.GradeA
	case avg >= 80:
		return model.GradeB
	case avg >= 70:
		return model.GradeC
	case avg >= 60:
		return model.GradeD
	default:
		return model.GradeF
	}
}

// OverallGrade derives the letter grade of s.
func OverallGrade(s Scores) model.Grade {
	return GradeFor(s.Mean())
}
