package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoleHierarchy(t *testing.T) {
	tests := []struct {
		role     Role
		required Role
		want     bool
	}{
		{RoleStudent, RoleStudent, true},
		{RoleStudent, RoleTeacher, false},
		{RoleStudent, RoleAdmin, false},
		{RoleTeacher, RoleStudent, true},
		{RoleTeacher, RoleTeacher, true},
		{RoleTeacher, RoleAdmin, false},
		{RoleAdmin, RoleStudent, true},
		{RoleAdmin, RoleTeacher, true},
		{RoleAdmin, RoleAdmin, true},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.role.Can(tt.required),
			"%s.Can(%s)", tt.role, tt.required)
	}
}

func TestRoleValid(t *testing.T) {
	assert.True(t, RoleStudent.Valid())
	assert.True(t, RoleTeacher.Valid())
	assert.True(t, RoleAdmin.Valid())
	assert.False(t, Role("superuser").Valid())
	assert.False(t, Role("").Valid())
}

func TestSectionByTitle(t *testing.T) {
	test := MockTest{
		Sections: []Section{
			{Title: SectionListening},
			{Title: SectionReading, Passage: "text"},
			{Title: SectionWriting, Task1: "a", Task2: "b"},
		},
	}

	reading := test.SectionByTitle(SectionReading)
	assert.NotNil(t, reading)
	assert.Equal(t, "text", reading.Passage)

	assert.Nil(t, test.SectionByTitle("speaking"))
}
