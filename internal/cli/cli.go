// Package cli implements the interactive console menu (the
// presentation layer). It talks to the manager only; all input and
// output go through an injected reader and writer so the prompt/read
// flows are testable with plain strings.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/aanand-mishra/student-management/internal/manager"
	"github.com/aanand-mishra/student-management/internal/types"
)

// CLI drives the menu loop over an injected reader/writer pair.
type CLI struct {
	in  *bufio.Scanner
	out io.Writer
	mgr *manager.Manager
}

// New builds a CLI reading from in and writing to out.
func New(mgr *manager.Manager, in io.Reader, out io.Writer) *CLI {
	return &CLI{
		in:  bufio.NewScanner(in),
		out: out,
		mgr: mgr,
	}
}

// readLine reads one line, trimmed of surrounding whitespace. ok is
// false once the input is exhausted (EOF or read error).
func (c *CLI) readLine() (line string, ok bool) {
	if !c.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(c.in.Text()), true
}

// prompt prints the given prompt literal and reads the reply line.
func (c *CLI) prompt(p string) (string, bool) {
	fmt.Fprint(c.out, p)
	return c.readLine()
}

// Run shows the menu until the user picks "Save and Exit" or the input
// ends. The returned error is the save failure, if any, on exit.
func (c *CLI) Run(ctx context.Context) error {
	for {
		fmt.Fprintln(c.out)
		fmt.Fprintln(c.out, strings.Repeat("=", 30))
		fmt.Fprintln(c.out, "    Student Management System")
		fmt.Fprintln(c.out, strings.Repeat("=", 30))
		fmt.Fprintln(c.out, "1. Add Student")
		fmt.Fprintln(c.out, "2. Query Student (with Natural Language)")
		fmt.Fprintln(c.out, "3. Modify Student")
		fmt.Fprintln(c.out, "4. Delete Student")
		fmt.Fprintln(c.out, "5. Show All")
		fmt.Fprintln(c.out, "6. Save and Exit")
		fmt.Fprintln(c.out, strings.Repeat("=", 30))

		choice, ok := c.prompt("Select operation (1-6): ")
		if !ok {
			// Input ended without an explicit exit; still persist.
			return c.saveOnExit(ctx)
		}

		switch choice {
		case "1":
			c.addStudent()
		case "2":
			c.queryStudents(ctx)
		case "3":
			c.modifyStudent()
		case "4":
			c.deleteStudent()
		case "5":
			c.showAll()
		case "6":
			return c.saveOnExit(ctx)
		default:
			fmt.Fprintln(c.out, "Invalid choice. Please enter a number between 1 and 6.")
		}
	}
}

// addStudent collects the fields for a new record and hands them to
// the manager, which owns all validation.
func (c *CLI) addStudent() {
	fmt.Fprintln(c.out, "\n--- Add Student ---")

	sid, ok := c.prompt("Enter Student ID (e.g., S101): ")
	if !ok {
		return
	}
	name, ok := c.prompt("Enter Name: ")
	if !ok {
		return
	}
	ageStr, ok := c.prompt("Enter Age (integer): ")
	if !ok {
		return
	}
	// A non-numeric age becomes 0 and is rejected by manager validation.
	age, _ := strconv.Atoi(ageStr)
	gender, ok := c.prompt("Enter Gender (Male/Female): ")
	if !ok {
		return
	}
	major, ok := c.prompt("Enter Major: ")
	if !ok {
		return
	}

	err := c.mgr.Add(types.Student{
		SID:    sid,
		Name:   name,
		Age:    age,
		Gender: gender,
		Major:  major,
	})
	if err != nil {
		fmt.Fprintf(c.out, "Error: %v\n", err)
		return
	}
	fmt.Fprintf(c.out, "Student %s added successfully!\n", sid)
}

// queryStudents runs a natural-language query through the manager.
func (c *CLI) queryStudents(ctx context.Context) {
	fmt.Fprintln(c.out, "\n--- Query Student (Natural Language) ---")

	text, ok := c.prompt("Enter query (e.g., 'all females over 20'): ")
	if !ok {
		return
	}

	results, _, err := c.mgr.QueryNatural(ctx, text)
	if err != nil {
		fmt.Fprintf(c.out, "Query Error: %v\n", err)
		return
	}

	fmt.Fprintln(c.out, "\nQuery Results:")
	if len(results) == 0 {
		fmt.Fprintln(c.out, "No students matched the query criteria.")
		return
	}
	for _, student := range results {
		fmt.Fprintln(c.out, student)
	}
}

// modifyStudent re-prompts every field with the current value as the
// default (empty reply keeps it) and commits via the manager.
func (c *CLI) modifyStudent() {
	fmt.Fprintln(c.out, "\n--- Modify Student ---")

	sid, ok := c.prompt("Enter Student ID to modify: ")
	if !ok {
		return
	}
	current, err := c.mgr.Get(sid)
	if err != nil {
		fmt.Fprintf(c.out, "No student found with ID %s!\n", sid)
		return
	}

	fmt.Fprintln(c.out, "Current data:")
	fmt.Fprintln(c.out, current)
	fmt.Fprintln(c.out, "Enter new information (press enter to keep unchanged):")

	upd := current
	if name, ok := c.prompt(fmt.Sprintf("New Name (%s): ", current.Name)); ok && name != "" {
		upd.Name = name
	}
	if ageStr, ok := c.prompt(fmt.Sprintf("New Age (%d): ", current.Age)); ok && ageStr != "" {
		if age, err := strconv.Atoi(ageStr); err == nil {
			upd.Age = age
		}
	}
	if gender, ok := c.prompt(fmt.Sprintf("New Gender (%s): ", current.Gender)); ok && gender != "" {
		upd.Gender = gender
	}
	if major, ok := c.prompt(fmt.Sprintf("New Major (%s): ", current.Major)); ok && major != "" {
		upd.Major = major
	}

	if err := c.mgr.Update(sid, upd); err != nil {
		fmt.Fprintf(c.out, "Error: %v\n", err)
		return
	}
	fmt.Fprintln(c.out, "Modification successful.")
}

// deleteStudent walks the confirm-then-delete flow.
//
// Every "failure" here is normal control flow with a console message,
// never an error: empty roster, unknown ID, and a declined confirmation
// all leave the roster untouched and return quietly.
func (c *CLI) deleteStudent() {
	fmt.Fprintln(c.out, "\n--- Delete Student ---")

	// Precondition: nothing to delete means no prompts at all.
	if c.mgr.Count() == 0 {
		fmt.Fprintln(c.out, "No student information available!")
		return
	}

	sid, ok := c.prompt("Enter student ID to delete: ")
	if !ok {
		return
	}

	student, err := c.mgr.Get(sid)
	if err != nil {
		fmt.Fprintf(c.out, "No student found with ID %s!\n", sid)
		return
	}

	answer, ok := c.prompt(fmt.Sprintf("Delete %s (%s)? (y/n): ", student.Name, student.SID))
	if !ok || !strings.EqualFold(answer, "y") {
		fmt.Fprintln(c.out, "Deletion canceled.")
		return
	}

	if err := c.mgr.Delete(sid); err != nil {
		fmt.Fprintf(c.out, "Error: %v\n", err)
		return
	}
	fmt.Fprintf(c.out, "Student %s deleted successfully.\n", student.Name)
}

// showAll lists the roster sorted by SID.
func (c *CLI) showAll() {
	fmt.Fprintln(c.out, "\n--- All Students ---")

	students := c.mgr.List()
	if len(students) == 0 {
		fmt.Fprintln(c.out, "No students in the system.")
		return
	}
	for _, student := range students {
		fmt.Fprintln(c.out, student)
	}
}

// saveOnExit persists the roster and reports the outcome.
func (c *CLI) saveOnExit(ctx context.Context) error {
	fmt.Fprintln(c.out, "\nSaving data and exiting...")
	if err := c.mgr.Save(ctx); err != nil {
		fmt.Fprintf(c.out, "Data save failed during exit: %v\n", err)
		return err
	}
	fmt.Fprintln(c.out, "Data saved. Goodbye!")
	return nil
}
