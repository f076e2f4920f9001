package run

// runRequest represents code to execute
type runRequest struct {
	Code     string `json:"code" example:"print(input())"`                            // Source code
	Language string `json:"language" example:"python" enum:"python,cpp,c,javascript"` // Language
	Input    string `json:"input" example:"hello"`                                    // Standard input
}

// runResponse represents a run result
type runResponse struct {
	Output string  `json:"output" example:"hello\n"`      // Standard output
	Error  string  `json:"error,omitempty" example:""`    // Compiler or runtime errors, or a service failure
	Time   float64 `json:"time,omitempty" example:"12.5"` // Elapsed milliseconds
}
