package types

// Category represents source categories
type Category string

const (
	CategoryLocal   Category = "local"
	CategoryVirtual Category = "virtual"
)

// Service represents one registered file source and its callable procedures
type Service struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Category    Category    `json:"category"`
	Procedures  []Procedure `json:"procedures"`
}

// Procedure represents a callable procedure exposed by a source
type Procedure struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Parameters  []Parameter `json:"parameters"`
	ResultSet   []Column    `json:"result_set,omitempty"`
}

// Parameter represents a procedure input parameter
type Parameter struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Required    bool   `json:"required"`
}

// Column represents one column of a procedure result set
type Column struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Result represents a completed procedure invocation
type Result struct {
	Success bool                     `json:"success"`
	Rows    []map[string]interface{} `json:"rows,omitempty"`
	Error   *string                  `json:"error,omitempty"`
}
