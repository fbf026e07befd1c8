package database

import (
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"

	"github.com/eslsoft/examtrack/internal/repository"
)

var (
	// SubjectsColumns holds the columns for the "subjects" table.
	SubjectsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt64, Increment: true},
		{Name: "name", Type: field.TypeString, Size: 128},
		{Name: "type", Type: field.TypeString, Size: 8},
	}
	// SubjectsTable holds the schema information for the "subjects" table.
	SubjectsTable = &schema.Table{
		Name:       repository.Subjects,
		Columns:    SubjectsColumns,
		PrimaryKey: []*schema.Column{SubjectsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "subject_name_type", Unique: true, Columns: []*schema.Column{SubjectsColumns[1], SubjectsColumns[2]}},
		},
	}

	// ExamsColumns holds the columns for the "exams" table.
	ExamsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt64, Increment: true},
		{Name: "user_id", Type: field.TypeString},
		{Name: "type", Type: field.TypeString, Size: 8},
		{Name: "date", Type: field.TypeTime},
		{Name: "total_net", Type: field.TypeFloat64, Default: 0},
		{Name: "created_at", Type: field.TypeTime},
	}
	ExamsTable = &schema.Table{
		Name:       repository.Exams,
		Columns:    ExamsColumns,
		PrimaryKey: []*schema.Column{ExamsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "exam_user_id_date", Columns: []*schema.Column{ExamsColumns[1], ExamsColumns[3]}},
		},
	}

	// ExamResultsColumns holds the columns for the "exam_results" table.
	ExamResultsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt64, Increment: true},
		{Name: "exam_id", Type: field.TypeInt64},
		{Name: "subject_id", Type: field.TypeInt64},
		{Name: "correct_count", Type: field.TypeInt, Default: 0},
		{Name: "incorrect_count", Type: field.TypeInt, Default: 0},
	}
	ExamResultsTable = &schema.Table{
		Name:       repository.ExamResults,
		Columns:    ExamResultsColumns,
		PrimaryKey: []*schema.Column{ExamResultsColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "exam_results_exams_results",
				Columns:    []*schema.Column{ExamResultsColumns[1]},
				RefColumns: []*schema.Column{ExamsColumns[0]},
				OnDelete:   schema.Cascade,
			},
			{
				Symbol:     "exam_results_subjects_results",
				Columns:    []*schema.Column{ExamResultsColumns[2]},
				RefColumns: []*schema.Column{SubjectsColumns[0]},
				OnDelete:   schema.NoAction,
			},
		},
	}

	// BooksColumns holds the columns for the "books" table.
	BooksColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt64, Increment: true},
		{Name: "user_id", Type: field.TypeString},
		{Name: "title", Type: field.TypeString},
		{Name: "subject_id", Type: field.TypeInt64, Nullable: true},
		{Name: "total_units", Type: field.TypeInt},
		{Name: "completed_units", Type: field.TypeInt, Default: 0},
		{Name: "created_at", Type: field.TypeTime},
	}
	BooksTable = &schema.Table{
		Name:       repository.Books,
		Columns:    BooksColumns,
		PrimaryKey: []*schema.Column{BooksColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "books_subjects_books",
				Columns:    []*schema.Column{BooksColumns[3]},
				RefColumns: []*schema.Column{SubjectsColumns[0]},
				OnDelete:   schema.SetNull,
			},
		},
	}

	// BookUnitsColumns holds the columns for the "book_units" table.
	BookUnitsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt64, Increment: true},
		{Name: "book_id", Type: field.TypeInt64},
		{Name: "unit_name", Type: field.TypeString},
		{Name: "unit_order", Type: field.TypeInt, Default: 0},
		{Name: "is_completed", Type: field.TypeBool, Default: false},
	}
	BookUnitsTable = &schema.Table{
		Name:       repository.BookUnits,
		Columns:    BookUnitsColumns,
		PrimaryKey: []*schema.Column{BookUnitsColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "book_units_books_units",
				Columns:    []*schema.Column{BookUnitsColumns[1]},
				RefColumns: []*schema.Column{BooksColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
	}

	// BookTestsColumns holds the columns for the "book_tests" table.
	BookTestsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt64, Increment: true},
		{Name: "unit_id", Type: field.TypeInt64},
		{Name: "test_name", Type: field.TypeString, Nullable: true},
		{Name: "total_questions", Type: field.TypeInt, Default: 0},
		{Name: "correct_answers", Type: field.TypeInt, Default: 0},
		{Name: "wrong_answers", Type: field.TypeInt, Default: 0},
	}
	BookTestsTable = &schema.Table{
		Name:       repository.BookTests,
		Columns:    BookTestsColumns,
		PrimaryKey: []*schema.Column{BookTestsColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "book_tests_book_units_tests",
				Columns:    []*schema.Column{BookTestsColumns[1]},
				RefColumns: []*schema.Column{BookUnitsColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
	}

	// GoalsColumns holds the columns for the "goals" table.
	GoalsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt64, Increment: true},
		{Name: "user_id", Type: field.TypeString},
		{Name: "title", Type: field.TypeString},
		{Name: "description", Type: field.TypeString, Nullable: true},
		{Name: "goal_type", Type: field.TypeString, Size: 16},
		{Name: "target_value", Type: field.TypeInt, Nullable: true},
		{Name: "current_value", Type: field.TypeInt, Default: 0},
		{Name: "is_completed", Type: field.TypeBool, Default: false},
		{Name: "due_date", Type: field.TypeTime, Nullable: true},
		{Name: "created_at", Type: field.TypeTime},
	}
	GoalsTable = &schema.Table{
		Name:       repository.Goals,
		Columns:    GoalsColumns,
		PrimaryKey: []*schema.Column{GoalsColumns[0]},
	}

	// StudySessionsColumns holds the columns for the "study_sessions" table.
	StudySessionsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt64, Increment: true},
		{Name: "user_id", Type: field.TypeString},
		{Name: "subject_id", Type: field.TypeInt64, Nullable: true},
		{Name: "duration_minutes", Type: field.TypeInt},
		{Name: "session_date", Type: field.TypeTime},
		{Name: "notes", Type: field.TypeString, Nullable: true},
		{Name: "created_at", Type: field.TypeTime},
	}
	StudySessionsTable = &schema.Table{
		Name:       repository.StudySessions,
		Columns:    StudySessionsColumns,
		PrimaryKey: []*schema.Column{StudySessionsColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "study_sessions_subjects_sessions",
				Columns:    []*schema.Column{StudySessionsColumns[2]},
				RefColumns: []*schema.Column{SubjectsColumns[0]},
				OnDelete:   schema.SetNull,
			},
		},
		Indexes: []*schema.Index{
			{Name: "study_session_user_id_session_date", Columns: []*schema.Column{StudySessionsColumns[1], StudySessionsColumns[4]}},
		},
	}

	// ProfilesColumns holds the columns for the "profiles" table.
	ProfilesColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt64, Increment: true},
		{Name: "user_id", Type: field.TypeString, Unique: true},
		{Name: "study_field", Type: field.TypeString, Nullable: true, Size: 16},
		{Name: "updated_at", Type: field.TypeTime},
	}
	ProfilesTable = &schema.Table{
		Name:       repository.Profiles,
		Columns:    ProfilesColumns,
		PrimaryKey: []*schema.Column{ProfilesColumns[0]},
	}

	// Tables holds every table in dependency order: referenced tables first.
	Tables = []*schema.Table{
		SubjectsTable,
		ExamsTable,
		ExamResultsTable,
		BooksTable,
		BookUnitsTable,
		BookTestsTable,
		GoalsTable,
		StudySessionsTable,
		ProfilesTable,
	}
)

func init() {
	ExamResultsTable.ForeignKeys[0].RefTable = ExamsTable
	ExamResultsTable.ForeignKeys[1].RefTable = SubjectsTable
	BooksTable.ForeignKeys[0].RefTable = SubjectsTable
	BookUnitsTable.ForeignKeys[0].RefTable = BooksTable
	BookTestsTable.ForeignKeys[0].RefTable = BookUnitsTable
	StudySessionsTable.ForeignKeys[0].RefTable = SubjectsTable
}

// Table returns the table definition for a collection name.
func Table(name string) (*schema.Table, bool) {
	for _, t := range Tables {
		if t.Name == name {
			return t, true
		}
	}
	return nil, false
}
