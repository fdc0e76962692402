package todo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestEvidencePaths(t *testing.T) {
	jakarta, err := time.LoadLocation("Asia/Jakarta")
	require.NoError(t, err)
	at := time.Date(2025, 1, 15, 14, 3, 9, 0, jakarta)

	single := EvidencePaths(7, 3, at, []string{".jpg"})
	require.Equal(t, []string{"evidence/2025-01-15/user_7/3_Rabu_20250115_140309.jpg"}, single)

	many := EvidencePaths(7, 1, at, []string{".png", ".pdf"})
	require.Equal(t, []string{
		"evidence/2025-01-15/user_7/1_Rabu_20250115_140309_1.png",
		"evidence/2025-01-15/user_7/1_Rabu_20250115_140309_2.pdf",
	}, many)
}

func TestDayName(t *testing.T) {
	require.Equal(t, "Minggu", DayName(time.Sunday))
	require.Equal(t, "Sabtu", DayName(time.Saturday))
}
