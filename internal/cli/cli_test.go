package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/aanand-mishra/student-management/internal/manager"
	"github.com/aanand-mishra/student-management/internal/query"
	"github.com/aanand-mishra/student-management/internal/storage/memory"
	"github.com/aanand-mishra/student-management/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestCLI builds a CLI over an in-memory roster, a scripted stdin,
// and a captured stdout. Each element of input becomes one reply line.
func newTestCLI(t *testing.T, seed []types.Student, input ...string) (*CLI, *manager.Manager, *bytes.Buffer) {
	t.Helper()

	mgr, err := manager.New(context.Background(), memory.New(), query.NewRuleAgent())
	require.NoError(t, err)
	for _, s := range seed {
		require.NoError(t, mgr.Add(s))
	}

	out := &bytes.Buffer{}
	in := strings.NewReader(strings.Join(input, "\n"))
	return New(mgr, in, out), mgr, out
}

func alice() types.Student {
	return types.Student{SID: "S1", Name: "Alice", Age: 21, Gender: "Female", Major: "Computer Science"}
}

func TestDeleteConfirmed(t *testing.T) {
	c, mgr, out := newTestCLI(t, []types.Student{alice()}, "S1", "y")

	c.deleteStudent()

	assert.Equal(t, 0, mgr.Count())
	assert.Contains(t, out.String(), "Alice")
	assert.Contains(t, out.String(), "deleted successfully.")
}

func TestDeleteConfirmationIsCaseInsensitiveAndTrimmed(t *testing.T) {
	c, mgr, out := newTestCLI(t, []types.Student{alice()}, "  S1  ", "  Y  ")

	c.deleteStudent()

	assert.Equal(t, 0, mgr.Count())
	assert.Contains(t, out.String(), "deleted successfully.")
}

func TestDeleteUnknownID(t *testing.T) {
	c, mgr, out := newTestCLI(t, []types.Student{alice()}, "S2")

	c.deleteStudent()

	assert.Equal(t, 1, mgr.Count())
	assert.Contains(t, out.String(), "No student found with ID S2!")
	// No confirmation prompt on the not-found path.
	assert.NotContains(t, out.String(), "(y/n)")
}

func TestDeleteEmptyRoster(t *testing.T) {
	c, mgr, out := newTestCLI(t, nil, "S1", "y")

	c.deleteStudent()

	assert.Equal(t, 0, mgr.Count())
	assert.Contains(t, out.String(), "No student information available!")
	// Precondition short-circuits before any prompt is issued.
	assert.NotContains(t, out.String(), "Enter student ID to delete:")
}

func TestDeleteDeclined(t *testing.T) {
	bobRec := types.Student{SID: "S1", Name: "Bob", Age: 20, Gender: "Male", Major: "Finance"}

	for _, answer := range []string{"n", "", "maybe", "yes"} {
		t.Run("answer "+answer, func(t *testing.T) {
			c, mgr, out := newTestCLI(t, []types.Student{bobRec}, "S1", answer)

			c.deleteStudent()

			assert.Equal(t, 1, mgr.Count())
			got, err := mgr.Get("S1")
			require.NoError(t, err)
			assert.Equal(t, bobRec, got)
			assert.Contains(t, out.String(), "Deletion canceled.")
			assert.NotContains(t, out.String(), "deleted successfully")
		})
	}
}

func TestAddStudent(t *testing.T) {
	c, mgr, out := newTestCLI(t, nil,
		"S101", "Alice", "21", "Female", "Computer Science")

	c.addStudent()

	assert.Contains(t, out.String(), "Student S101 added successfully!")
	got, err := mgr.Get("S101")
	require.NoError(t, err)
	assert.Equal(t, "Alice", got.Name)
	assert.Equal(t, 21, got.Age)
}

func TestAddStudentInvalidAge(t *testing.T) {
	c, mgr, out := newTestCLI(t, nil,
		"S101", "Alice", "abc", "Female", "Computer Science")

	c.addStudent()

	assert.Contains(t, out.String(), "Error:")
	assert.Equal(t, 0, mgr.Count())
}

func TestQueryStudents(t *testing.T) {
	c, _, out := newTestCLI(t, []types.Student{
		alice(),
		{SID: "S2", Name: "Bob", Age: 19, Gender: "Male", Major: "Finance"},
	}, "all females over 20")

	c.queryStudents(context.Background())

	assert.Contains(t, out.String(), "Alice")
	assert.NotContains(t, out.String(), "Bob")
}

func TestQueryStudentsUnparseable(t *testing.T) {
	c, _, out := newTestCLI(t, []types.Student{alice()}, "who is the dean")

	c.queryStudents(context.Background())

	assert.Contains(t, out.String(), "Query Error:")
}

func TestModifyStudentKeepsUnchangedFields(t *testing.T) {
	c, mgr, out := newTestCLI(t, []types.Student{alice()},
		"S1", // which student
		"",   // keep name
		"22", // new age
		"",   // keep gender
		"Finance")

	c.modifyStudent()

	assert.Contains(t, out.String(), "Modification successful.")
	got, err := mgr.Get("S1")
	require.NoError(t, err)
	assert.Equal(t, "Alice", got.Name)
	assert.Equal(t, 22, got.Age)
	assert.Equal(t, "Female", got.Gender)
	assert.Equal(t, "Finance", got.Major)
}

func TestShowAllEmpty(t *testing.T) {
	c, _, out := newTestCLI(t, nil)

	c.showAll()

	assert.Contains(t, out.String(), "No students in the system.")
}

func TestRunMenuScript(t *testing.T) {
	// Add a student through the menu, list, then save and exit.
	c, mgr, out := newTestCLI(t, nil,
		"1", "S1", "Alice", "21", "Female", "Computer Science",
		"5",
		"9", // invalid choice
		"6",
	)

	err := c.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, mgr.Count())
	assert.Contains(t, out.String(), "Student Management System")
	assert.Contains(t, out.String(), "ID: S1")
	assert.Contains(t, out.String(), "Invalid choice. Please enter a number between 1 and 6.")
	assert.Contains(t, out.String(), "Data saved. Goodbye!")
}

func TestRunSavesOnEOF(t *testing.T) {
	c, _, out := newTestCLI(t, nil) // no input at all

	err := c.Run(context.Background())
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Saving data and exiting...")
}
