package holiday

// Day type codes as returned by the calendar API
const (
	TypeWorkday = 0 // ordinary working day
	TypeRestDay = 1 // designated rest or holiday day
)

// Published states for a classified day
const (
	StateWorkday = "workday"
	StateWeekend = "weekend"
	StateHoliday = "holiday"
	StateUnknown = "unknown"
	StateError   = "error"
)

// Attribute keys populated on a classification result
const (
	AttrRawType     = "api_raw_type"
	AttrTypeName    = "api_typename"
	AttrDate        = "date"
	AttrLastUpdated = "last_updated"
	AttrNote        = "note"
	AttrError       = "error"
)

// DayEntry represents one date's classification from the calendar API.
// Type is a pointer so a missing code can be told apart from code 0.
type DayEntry struct {
	Type     *int   `json:"type"`
	TypeName string `json:"typename,omitempty"`
}

// MonthData maps MMDD day keys to their entries for a single month
type MonthData map[string]DayEntry

// Result represents the publishable outcome of one classification cycle
type Result struct {
	State      string
	Attributes map[string]interface{}
}

// Sink receives the computed result at the end of every cycle
type Sink interface {
	Publish(result Result) error
}
