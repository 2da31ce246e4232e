package quote

import (
	"errors"
	"testing"
	"time"

	"starquote/internal/age"

	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	table := []struct {
		input    string
		expected Role
	}{
		{input: "adult", expected: RoleAdult},
		{input: " Parent ", expected: RoleParent},
		{input: "CHILD", expected: RoleChild},
		{input: "", expected: RoleAdult},
		{input: "wife", expected: RoleAdult},
		{input: "mother", expected: RoleParent},
		{input: "daughter", expected: RoleChild},
		{input: "daughtr", expected: RoleChild},
		{input: "fathr", expected: RoleParent},
	}
	for _, row := range table {
		role, err := ParseRole(row.input)
		if err != nil {
			t.Fatal(err)
		}
		require.Equal(t, row.expected, role, row.input)
	}

	_, err := ParseRole("landlord")
	require.Error(t, err)
}

func TestParseMember(t *testing.T) {
	p, err := ParseMember("Sita:1962-01-01:mother")
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, "Sita", p.Name)
	require.Equal(t, RoleParent, p.Role)
	require.Equal(t, time.Date(1962, time.January, 1, 0, 0, 0, 0, time.UTC), p.BirthDate)

	p, err = ParseMember("Anil:1995-01-01")
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, RoleAdult, p.Role)

	_, err = ParseMember("Anil")
	require.Error(t, err)
	_, err = ParseMember(":1995-01-01")
	require.Error(t, err)

	_, err = ParseMember("Anil:01-01-1995")
	var parseErr *age.ParseError
	require.True(t, errors.As(err, &parseErr))
}

func TestRepresentativeAge(t *testing.T) {
	representative, err := RepresentativeAge([]Member{
		{Role: RoleAdult, Age: 64},
		{Role: RoleAdult, Age: 62},
		{Role: RoleAdult, Age: 29},
		{Role: RoleAdult, Age: 26},
	})
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, 64, representative)

	_, err = RepresentativeAge([]Member{{Role: RoleChild, Age: 10}, {Role: RoleChild, Age: 8}})
	require.True(t, IsDomainError(err))
}
