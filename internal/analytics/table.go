package analytics

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// MinutesPerDay is the number of one-minute observations in a full day
const MinutesPerDay = 24 * 60

// rowKey indexes a table row by (day, time_of_day)
type rowKey struct {
	day  Day
	time string
}

// Table is an ordered, read-only sequence of observations with an index by
// (day, time_of_day). Analytic operations never modify a Table; derived
// columns are returned as new structures.
type Table struct {
	id    uuid.UUID
	rows  []Observation
	index map[rowKey]int
}

// NewTable validates and copies the observations into a new table.
// Every (day, time_of_day) pair must be unique and time_of_day must be "HH:MM".
func NewTable(observations []Observation) (*Table, error) {
	t := &Table{
		id:    uuid.New(),
		rows:  make([]Observation, len(observations)),
		index: make(map[rowKey]int, len(observations)),
	}

	for i, obs := range observations {
		if obs.Day.Index() < 0 {
			return nil, fmt.Errorf("%w: row %d has unknown day %q", ErrInvalidParameter, i, obs.Day)
		}
		if err := ValidateTimeOfDay(obs.TimeOfDay); err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}

		key := rowKey{day: obs.Day, time: obs.TimeOfDay}
		if prev, exists := t.index[key]; exists {
			return nil, fmt.Errorf("%w: rows %d and %d share %s %s",
				ErrInvalidParameter, prev, i, obs.Day, obs.TimeOfDay)
		}
		t.index[key] = i

		values := make(map[Sensor]float64, len(obs.Values))
		for s, v := range obs.Values {
			if err := CheckSensor(s); err != nil {
				return nil, fmt.Errorf("row %d: %w", i, err)
			}
			values[s] = v
		}
		t.rows[i] = Observation{Day: obs.Day, TimeOfDay: obs.TimeOfDay, Values: values}
	}

	return t, nil
}

// ValidateTimeOfDay checks the "HH:MM" format (00:00 to 23:59)
func ValidateTimeOfDay(s string) error {
	if len(s) != 5 || s[2] != ':' {
		return fmt.Errorf("%w: time of day %q is not HH:MM", ErrInvalidParameter, s)
	}
	for _, i := range []int{0, 1, 3, 4} {
		if s[i] < '0' || s[i] > '9' {
			return fmt.Errorf("%w: time of day %q is not HH:MM", ErrInvalidParameter, s)
		}
	}
	hour := int(s[0]-'0')*10 + int(s[1]-'0')
	minute := int(s[3]-'0')*10 + int(s[4]-'0')
	if hour > 23 || minute > 59 {
		return fmt.Errorf("%w: time of day %q out of range", ErrInvalidParameter, s)
	}
	return nil
}

// TimeOfDay formats a minute offset within a day as "HH:MM"
func TimeOfDay(minute int) string {
	return fmt.Sprintf("%02d:%02d", minute/60, minute%60)
}

// ID returns the table identity, used to key cached results
func (t *Table) ID() string {
	return t.id.String()
}

// Len returns the number of rows
func (t *Table) Len() int {
	return len(t.rows)
}

// Row returns a copy of the i-th observation
func (t *Table) Row(i int) Observation {
	obs := t.rows[i]
	values := make(map[Sensor]float64, len(obs.Values))
	for s, v := range obs.Values {
		values[s] = v
	}
	return Observation{Day: obs.Day, TimeOfDay: obs.TimeOfDay, Values: values}
}

// Lookup finds the row index of a (day, time_of_day) pair
func (t *Table) Lookup(day Day, timeOfDay string) (int, bool) {
	i, ok := t.index[rowKey{day: day, time: timeOfDay}]
	return i, ok
}

// DayAt returns the day label of the i-th row
func (t *Table) DayAt(i int) Day {
	return t.rows[i].Day
}

// TimeAt returns the time-of-day label of the i-th row
func (t *Table) TimeAt(i int) string {
	return t.rows[i].TimeOfDay
}

// HourAt returns the "HH:00" label of the i-th row
func (t *Table) HourAt(i int) string {
	return t.rows[i].Hour()
}

// Column extracts the readings of a sensor in row order.
// Missing readings are returned as NaN.
func (t *Table) Column(s Sensor) ([]float64, error) {
	if err := CheckSensor(s); err != nil {
		return nil, err
	}
	values := make([]float64, len(t.rows))
	for i, obs := range t.rows {
		v, ok := obs.Values[s]
		if !ok {
			v = math.NaN()
		}
		values[i] = v
	}
	return values, nil
}

// Days returns the distinct days present, in week order
func (t *Table) Days() []Day {
	present := make(map[Day]bool)
	for _, obs := range t.rows {
		present[obs.Day] = true
	}
	days := make([]Day, 0, len(present))
	for _, d := range AllDays {
		if present[d] {
			days = append(days, d)
		}
	}
	return days
}

// FilterDays returns a new table holding only the rows of the given days,
// in their original order. The derived table's ID is deterministic for a
// given parent and day set. An empty day set selects no rows.
func (t *Table) FilterDays(days []Day) *Table {
	selected := make(map[Day]bool, len(days))
	for _, d := range days {
		selected[d] = true
	}

	labels := make([]string, 0, len(selected))
	for d := range selected {
		labels = append(labels, string(d))
	}
	sort.Strings(labels)
	id := uuid.NewSHA1(t.id, []byte(strings.Join(labels, ",")))

	filtered := &Table{
		id:    id,
		rows:  make([]Observation, 0, len(t.rows)),
		index: make(map[rowKey]int),
	}
	for _, obs := range t.rows {
		if !selected[obs.Day] {
			continue
		}
		filtered.index[rowKey{day: obs.Day, time: obs.TimeOfDay}] = len(filtered.rows)
		// Rows are never mutated after construction, so sharing value maps is safe
		filtered.rows = append(filtered.rows, obs)
	}
	return filtered
}

// IsCompleteWeek reports whether the table covers all 7 days x 1440 minutes
func (t *Table) IsCompleteWeek() bool {
	return len(t.rows) == len(AllDays)*MinutesPerDay
}

// NewSeriesTable builds a table holding a single sensor column, one row per
// minute starting on Monday at 00:00. NaN values become missing readings.
func NewSeriesTable(s Sensor, values []float64) (*Table, error) {
	if err := CheckSensor(s); err != nil {
		return nil, err
	}
	if len(values) > len(AllDays)*MinutesPerDay {
		return nil, fmt.Errorf("%w: %d values exceed one week of minutes", ErrInvalidParameter, len(values))
	}

	observations := make([]Observation, len(values))
	for i, v := range values {
		obs := Observation{
			Day:       AllDays[i/MinutesPerDay],
			TimeOfDay: TimeOfDay(i % MinutesPerDay),
			Values:    map[Sensor]float64{},
		}
		if !math.IsNaN(v) {
			obs.Values[s] = v
		}
		observations[i] = obs
	}
	return NewTable(observations)
}
