package profile

import (
	"errors"
	"fmt"
	"strings"
)

// Experience levels accepted for profiles.
const (
	LevelJunior   = "junior"
	LevelMidLevel = "mid-level"
	LevelSenior   = "senior"
	LevelExpert   = "expert"
)

type Experience struct {
	Years       int      `json:"years,omitempty"`
	Level       string   `json:"level,omitempty"`
	Specialties []string `json:"specialties,omitempty"`
}

type Profile struct {
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Skills      []string   `json:"skills,omitempty"`
	Experience  Experience `json:"experience,omitempty"`
	HourlyRate  float64    `json:"hourly_rate,omitempty" mapstructure:"hourly_rate"`
	Categories  []string   `json:"categories,omitempty"`
	Portfolio   string     `json:"portfolio,omitempty"`
}

// Validate rejects profiles missing required fields. Validation failures are
// surfaced to the caller, never silently defaulted.
func (p *Profile) Validate() error {
	if p == nil {
		return errors.New("profile is required")
	}
	if strings.TrimSpace(p.Name) == "" {
		return errors.New("profile name is required")
	}
	if len(p.Skills) == 0 {
		return fmt.Errorf("profile %q must list at least one skill", p.Name)
	}
	if p.Experience.Years < 0 {
		return fmt.Errorf("profile %q has negative experience years", p.Name)
	}
	if p.HourlyRate < 0 {
		return fmt.Errorf("profile %q has negative hourly rate", p.Name)
	}
	switch level := strings.ToLower(strings.TrimSpace(p.Experience.Level)); level {
	case "", LevelJunior, LevelMidLevel, LevelSenior, LevelExpert:
	default:
		return fmt.Errorf("profile %q has unknown experience level %q", p.Name, level)
	}
	return nil
}

type Profiles struct {
	Items []*Profile
}

func (p *Profiles) Len() int {
	return len(p.Items)
}

func (p *Profiles) Names() []string {
	names := make([]string, 0, len(p.Items))
	for _, item := range p.Items {
		names = append(names, item.Name)
	}
	return names
}

func (p *Profiles) FindByName(name string) *Profile {
	for _, item := range p.Items {
		if item.Name == name {
			return item
		}
	}
	return nil
}
