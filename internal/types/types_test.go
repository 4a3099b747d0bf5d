package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStudentString(t *testing.T) {
	s := Student{SID: "S1", Name: "Alice", Age: 21, Gender: "Female", Major: "Computer Science"}
	assert.Equal(t,
		"ID: S1\tName: Alice\tAge: 21\tGender: Female\tMajor: Computer Science",
		s.String())
}
