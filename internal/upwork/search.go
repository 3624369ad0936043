package upwork

import (
	"fmt"
	"net/url"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"

	"github.com/dike950121/upwork-radar/internal/job"
)

const (
	SearchPath = "/jobs/search"
)

type SearchParams struct {
	Query string `yaml:"query"`
	// upparam is custom tag for reflect. Please see below.
	Skills       []string `upparam:"skill"`
	Categories   []string `upparam:"category"`
	BudgetMin    uint     `yaml:"budget_min" mapstructure:"budget_min"`
	Experience   string   `yaml:"experience"`
	Location     string   `yaml:"location"`
	SortBy       string   `yaml:"sort_by" mapstructure:"sort_by"`
	PerPage      string   `yaml:"per_page" mapstructure:"per_page"`
	PostedWithin uint     `yaml:"posted_within" mapstructure:"posted_within"`
}

// rawJob is one posting as the marketplace reports it.
type rawJob struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	Budget      struct {
		Type    string  `json:"type"`
		Minimum float64 `json:"minimum"`
		Maximum float64 `json:"maximum"`
	} `json:"budget"`
	Skills []struct {
		Name string `json:"name"`
	} `json:"skills"`
	Location struct {
		Country string `json:"country"`
	} `json:"location"`
	Client struct {
		PaymentVerified bool    `json:"payment_verified"`
		Feedback        float64 `json:"feedback"`
		ReviewsCount    int     `json:"reviews_count"`
		Tier            string  `json:"tier"`
	} `json:"client"`
	ExperienceLevel string `json:"experience_level"`
	CreatedAt       string `json:"created_at"`
}

// Search queries the marketplace and returns normalized jobs. An empty
// result is not an error.
func (c *Client) Search(params *SearchParams) (*job.Jobs, error) {
	// Set per_page max as possible. It should be faster.
	if params.PerPage == "" {
		params.PerPage = perPage
	}

	q := buildParams(params)
	apiURLSearch := fmt.Sprintf("%s%s", c.APIURL, SearchPath)

	items, err := c.GetItems(apiURLSearch, q)
	if err != nil {
		return nil, err
	}

	var raws []*rawJob
	cfg := &mapstructure.DecoderConfig{
		Metadata: nil,
		Result:   &raws,
		TagName:  "json",
	}
	decoder, _ := mapstructure.NewDecoder(cfg)
	if err := decoder.Decode(items); err != nil {
		return nil, fmt.Errorf("decode search items: %w", err)
	}

	jobs := &job.Jobs{Items: make([]*job.Job, 0, len(raws))}
	for _, raw := range raws {
		jobs.Items = append(jobs.Items, raw.normalize())
	}

	return jobs, nil
}

// normalize converts a marketplace posting into the internal job model.
func (r *rawJob) normalize() *job.Job {
	skills := make([]string, 0, len(r.Skills))
	for _, skill := range r.Skills {
		if name := strings.TrimSpace(skill.Name); name != "" {
			skills = append(skills, name)
		}
	}

	budget := &job.Budget{
		Type: job.BudgetUnknown,
		Min:  r.Budget.Minimum,
		Max:  r.Budget.Maximum,
	}
	switch strings.ToLower(strings.TrimSpace(r.Budget.Type)) {
	case "fixed", "fixed-price", "fixed_price":
		budget.Type = job.BudgetFixed
	case "hourly":
		budget.Type = job.BudgetHourly
	}

	createdAt := time.Now().UTC()
	if parsed, err := time.Parse(time.RFC3339, r.CreatedAt); err == nil {
		createdAt = parsed
	}

	return &job.Job{
		ExternalID:      r.ID,
		Title:           r.Title,
		Description:     r.Description,
		URL:             r.URL,
		Budget:          budget,
		Skills:          skills,
		Location:        r.Location.Country,
		ClientInfo:      r.clientInfo(),
		ExperienceLevel: strings.ToLower(r.ExperienceLevel),
		CreatedAt:       createdAt,
	}
}

// clientInfo flattens the client block into the free-text form the scorer
// keys on. The scorer treats "0%" as the zero-feedback marker, so positive
// percentages are spelled out to keep "90%" and "100%" from matching it.
func (r *rawJob) clientInfo() string {
	parts := make([]string, 0, 4)
	if r.Client.PaymentVerified {
		parts = append(parts, "payment verified")
	}
	if tier := strings.TrimSpace(r.Client.Tier); tier != "" {
		parts = append(parts, strings.ToLower(tier))
	}
	switch {
	case r.Client.ReviewsCount == 0:
		parts = append(parts, "no feedback")
	case r.Client.Feedback <= 0:
		parts = append(parts, "0% positive feedback")
	default:
		parts = append(parts, fmt.Sprintf("%.0f percent positive feedback (%d reviews)", r.Client.Feedback*100, r.Client.ReviewsCount))
	}
	return strings.Join(parts, ", ")
}

func buildParams(params *SearchParams) url.Values {
	q := url.Values{}
	fields := reflect.VisibleFields(reflect.TypeOf(*params))
	for _, field := range fields {
		// Our custom tag is using here.
		key := field.Tag.Get("upparam")
		if key == "" {
			// Failover to default tag if our tag do not exist.
			key = field.Tag.Get("yaml")
		}
		kind := field.Type.Kind()
		switch kind {
		case reflect.Slice:

			s := reflect.ValueOf(params).Elem().Field(field.Index[0]).Interface()
			switch v := s.(type) {
			case []int:
				for _, value := range v {
					q.Add(key, strconv.Itoa(value))
				}

			case []string:
				for _, value := range v {
					q.Add(key, value)
				}
			}

		default:
			value := fmt.Sprintf("%v", reflect.ValueOf(params).Elem().Field(field.Index[0]).Interface())
			if value != "" && value != "0" {
				q.Set(key, value)
			}
		}
	}

	return q
}
