package todo

import (
	"fmt"
	"path"
	"time"
)

var dayNames = [...]string{
	time.Sunday:    "Minggu",
	time.Monday:    "Senin",
	time.Tuesday:   "Selasa",
	time.Wednesday: "Rabu",
	time.Thursday:  "Kamis",
	time.Friday:    "Jumat",
	time.Saturday:  "Sabtu",
}

func DayName(d time.Weekday) string {
	return dayNames[d]
}

// EvidenceDir is the folder evidence of one user on one business day lives in.
func EvidenceDir(userID int64, day time.Time) string {
	return path.Join("evidence", day.Format("2006-01-02"), fmt.Sprintf("user_%d", userID))
}

// EvidenceName builds the stored name of the index-th of total files submitted
// as the seq-th submission of the day. ext includes the leading dot.
func EvidenceName(seq int, at time.Time, index, total int, ext string) string {
	name := fmt.Sprintf("%d_%s_%s", seq, DayName(at.Weekday()), at.Format("20060102_150405"))
	if total > 1 {
		name = fmt.Sprintf("%s_%d", name, index+1)
	}
	return name + ext
}

// EvidencePaths returns the full paths for a submission of len(exts) files.
func EvidencePaths(userID int64, seq int, at time.Time, exts []string) []string {
	dir := EvidenceDir(userID, at)
	out := make([]string, len(exts))
	for i, ext := range exts {
		out[i] = path.Join(dir, EvidenceName(seq, at, i, len(exts), ext))
	}
	return out
}
