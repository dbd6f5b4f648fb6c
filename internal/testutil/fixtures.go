package testutil

import (
	"database/sql"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"safetrack/internal/models"
)

// Fixtures holds test data
type Fixtures struct {
	DB            *sql.DB
	AdminUser     *models.User
	ManagerUser   *models.User
	InspectorUser *models.User
	Checklist     *models.Checklist
	Items         []models.ChecklistItem
}

// SetupFixtures creates the baseline users, roles and a checklist with a mix
// of critical and non-critical items
func SetupFixtures(t *testing.T, db *sql.DB) *Fixtures {
	t.Helper()

	fixtures := &Fixtures{DB: db}

	// Roles are seeded by the initial migration
	inspectorRole := getRole(t, db, "inspector")
	managerRole := getRole(t, db, "safety_manager")
	adminRole := getRole(t, db, "admin")

	fixtures.AdminUser = createUser(t, db, "admin@test.com", "Admin", "User",
		[]uint{adminRole.ID, managerRole.ID, inspectorRole.ID})
	fixtures.ManagerUser = createUser(t, db, "manager@test.com", "Safety", "Manager",
		[]uint{managerRole.ID})
	fixtures.InspectorUser = createUser(t, db, "inspector@test.com", "Ivy", "Inspector",
		[]uint{inspectorRole.ID})

	fixtures.Checklist = createChecklist(t, db, "Forklift Pre-Shift", "equipment", fixtures.AdminUser.ID)
	fixtures.Items = createItems(t, db, fixtures.Checklist.ID)

	return fixtures
}

// getRole reads a seeded role by name
func getRole(t *testing.T, db *sql.DB, name string) *models.Role {
	t.Helper()

	var role models.Role
	err := db.QueryRow(
		"SELECT id, name, description, created_at FROM roles WHERE name = $1",
		name,
	).Scan(&role.ID, &role.Name, &role.Description, &role.CreatedAt)
	if err != nil {
		t.Fatalf("Failed to get role %s: %v", name, err)
	}
	return &role
}

// createUser creates a user with the given roles
func createUser(t *testing.T, db *sql.DB, email, firstName, lastName string, roleIDs []uint) *models.User {
	t.Helper()

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}

	var user models.User
	err = db.QueryRow(`
		INSERT INTO users (email, password_hash, first_name, last_name, is_active)
		VALUES ($1, $2, $3, $4, true)
		RETURNING id, email, first_name, last_name, is_active, created_at, updated_at
	`, email, string(hashedPassword), firstName, lastName).Scan(
		&user.ID, &user.Email, &user.FirstName, &user.LastName,
		&user.IsActive, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("Failed to create user %s: %v", email, err)
	}

	for _, roleID := range roleIDs {
		if _, err := db.Exec("INSERT INTO user_roles (user_id, role_id) VALUES ($1, $2)", user.ID, roleID); err != nil {
			t.Fatalf("Failed to assign role %d to user %s: %v", roleID, email, err)
		}
	}

	return &user
}

// createChecklist creates an active checklist
func createChecklist(t *testing.T, db *sql.DB, name, category string, createdBy uint) *models.Checklist {
	t.Helper()

	var checklist models.Checklist
	err := db.QueryRow(`
		INSERT INTO checklists (name, category, is_active, created_by)
		VALUES ($1, $2, true, $3)
		RETURNING id, name, category, is_active, created_by, created_at, updated_at
	`, name, category, createdBy).Scan(
		&checklist.ID, &checklist.Name, &checklist.Category, &checklist.IsActive,
		&checklist.CreatedBy, &checklist.CreatedAt, &checklist.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("Failed to create checklist: %v", err)
	}
	return &checklist
}

// createItems creates a standard item set: two critical, two not
func createItems(t *testing.T, db *sql.DB, checklistID uint) []models.ChecklistItem {
	t.Helper()

	itemData := []struct {
		text     string
		critical bool
	}{
		{"Brakes respond correctly", true},
		{"Horn is audible", false},
		{"Hydraulic lines show no leaks", true},
		{"Operator cabin is clean", false},
	}

	var items []models.ChecklistItem
	for i, data := range itemData {
		var item models.ChecklistItem
		err := db.QueryRow(`
			INSERT INTO checklist_items (checklist_id, text, critical, sort_order)
			VALUES ($1, $2, $3, $4)
			RETURNING id, checklist_id, text, critical, sort_order, created_at, updated_at
		`, checklistID, data.text, data.critical, i+1).Scan(
			&item.ID, &item.ChecklistID, &item.Text, &item.Critical,
			&item.SortOrder, &item.CreatedAt, &item.UpdatedAt,
		)
		if err != nil {
			t.Fatalf("Failed to create item %q: %v", data.text, err)
		}
		items = append(items, item)
	}
	return items
}
