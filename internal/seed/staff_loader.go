package seed

import (
	"encoding/csv"
	"io"
	"log"
	"os"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/icz3us/medical-inv-v2/domain"
)

// LoadStaff ingests the staff roster CSV into the users table, ignoring
// duplicates. Falls back to the built-in allow-list when the file is missing
// so a fresh database always has someone who can sign in.
func LoadStaff(db *sqlx.DB, csvPath string) {
	staff := readRoster(csvPath)
	if len(staff) == 0 {
		staff = domain.DefaultStaff()
	}

	tx, err := db.Beginx()
	if err != nil {
		log.Printf("unable to start staff transaction: %v", err)
		return
	}
	stmt, err := tx.Preparex(`INSERT INTO users (id, name, role, email) VALUES ($1, $2, $3, $4) ON CONFLICT (id) DO NOTHING`)
	if err != nil {
		log.Printf("unable to prepare staff insert: %v", err)
		_ = tx.Rollback()
		return
	}
	defer stmt.Close()

	rows := 0
	for _, user := range staff {
		if _, err := stmt.Exec(user.ID, user.Name, user.Role, user.Email); err != nil {
			log.Printf("unable to insert staff member %s: %v", user.ID, err)
		} else {
			rows++
		}
	}

	if err := tx.Commit(); err != nil {
		log.Printf("unable to commit staff seed: %v", err)
	} else {
		log.Printf("seeded staff roster with %d rows", rows)
	}
}

func readRoster(csvPath string) []domain.User {
	file, err := os.Open(csvPath)
	if err != nil {
		log.Printf("unable to load staff roster %s: %v", csvPath, err)
		return nil
	}
	defer file.Close()

	reader := csv.NewReader(file)
	// Skip header
	if _, err := reader.Read(); err != nil {
		log.Printf("unable to read staff header: %v", err)
		return nil
	}

	var staff []domain.User
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Printf("unable to read staff row: %v", err)
			continue
		}
		if len(record) < 3 {
			continue
		}
		id := strings.ToUpper(strings.TrimSpace(record[0]))
		name := strings.TrimSpace(record[1])
		role := strings.TrimSpace(record[2])
		email := ""
		if len(record) > 3 {
			email = strings.TrimSpace(record[3])
		}
		if id == "" || !domain.ValidRole(role) {
			continue
		}
		staff = append(staff, domain.User{ID: id, Name: name, Role: role, Email: email})
	}
	return staff
}
