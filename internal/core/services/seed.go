package services

import "github.com/custodia-labs/microverse/internal/core/domain"

func intPtr(v int) *int { return &v }

// seedSources is the starter corpus used when the content directory is
// empty, so a fresh install can answer queries.
func seedSources() []domain.SourceText {
	return []domain.SourceText{
		{
			Meta: domain.SourceMeta{
				Work:   "Optics",
				Author: "Euclid",
				Year:   intPtr(-300),
				Era:    "ancient",
				Topic:  []string{"perception", "vision"},
			},
			Body: "Let it be postulated that the visual rays proceed in straight lines and diverge from the eye...",
		},
		{
			Meta: domain.SourceMeta{
				Work:   "An Essay Towards a New Theory of Vision",
				Author: "George Berkeley",
				Year:   intPtr(1709),
				Era:    "enlightenment",
				Topic:  []string{"perception", "vision"},
			},
			Body: "Distance of itself, and immediately, cannot be seen. " +
				"For distance being a line directed end-wise to the eye...",
		},
		{
			Meta: domain.SourceMeta{
				Work:   "On the Sensations of Tone",
				Author: "Hermann von Helmholtz",
				Year:   intPtr(1863),
				Era:    "19c",
				Topic:  []string{"perception", "audio"},
			},
			Body: "The tones of musical instruments are composed of a fundamental and its upper partials; " +
				"timbre depends upon these relations.",
		},
	}
}
