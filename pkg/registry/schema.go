// pkg/registry/schema.go
package registry

type ActivityRegistry struct {
	Version     string     `json:"version"`
	LastUpdated string     `json:"lastUpdated"`
	Activities  []Activity `json:"activities"`
}

type Activity struct {
	ID            string   `json:"id"`
	DisplayName   string   `json:"displayName"`
	Description   string   `json:"description"`
	Category      string   `json:"category"`
	TaskType      string   `json:"taskType"`
	ErrorCodes    []string `json:"errorCodes"`
	MaxJobsActive int      `json:"maxJobsActive"`
	TimeoutMs     int      `json:"timeoutMs"`
	Retries       int      `json:"retries"`
	Tags          []string `json:"tags"`
}
