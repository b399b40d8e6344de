package sieve

// Canonical field names, in output order. Every record is normalized into
// exactly this shape regardless of what the source file calls its columns.
const (
	FieldID          = "id"
	FieldLoginID     = "login_id"
	FieldMailAddress = "mail_address"
	FieldPassword    = "password"
	FieldCreatedAt   = "created_at"
	FieldSalt        = "salt"
	FieldBirthdayOn  = "birthday_on"
	FieldGender      = "gender"
)

// Fields is the canonical column order for all outputs.
var Fields = []string{
	FieldID,
	FieldLoginID,
	FieldMailAddress,
	FieldPassword,
	FieldCreatedAt,
	FieldSalt,
	FieldBirthdayOn,
	FieldGender,
}

// Value is a nullable cell. The zero value is null.
type Value struct {
	String string
	Valid  bool
}

// Val wraps a non-null string.
func Val(s string) Value { return Value{String: s, Valid: true} }

func (v Value) Get() (string, bool) { return v.String, v.Valid }
func (v Value) IsNull() bool        { return !v.Valid }

// Flags holds the four independent validation verdicts for one record.
type Flags struct {
	EmailOK    bool
	RowOK      bool
	BirthdayOK bool
	Duplicate  bool
}

// Valid reports the combined verdict: every predicate must pass and the
// record must not be part of a duplicate group.
func (f Flags) Valid() bool {
	return f.EmailOK && f.RowOK && f.BirthdayOK && !f.Duplicate
}

// Failures lists the names of the predicates the record failed. Empty for
// a valid record.
func (f Flags) Failures() []string {
	var out []string
	if !f.EmailOK {
		out = append(out, "email")
	}
	if !f.RowOK {
		out = append(out, "missing_field")
	}
	if !f.BirthdayOK {
		out = append(out, "birthday")
	}
	if f.Duplicate {
		out = append(out, "duplicate")
	}
	return out
}

// Record is one user row in canonical shape. Flags are working state for
// the validation pass; they never appear in any output.
type Record struct {
	ID          Value
	LoginID     Value
	MailAddress Value
	Password    Value
	CreatedAt   Value
	Salt        Value
	BirthdayOn  Value
	Gender      Value

	Flags Flags
}

// Field returns the value of the named canonical field.
func (r *Record) Field(name string) Value {
	switch name {
	case FieldID:
		return r.ID
	case FieldLoginID:
		return r.LoginID
	case FieldMailAddress:
		return r.MailAddress
	case FieldPassword:
		return r.Password
	case FieldCreatedAt:
		return r.CreatedAt
	case FieldSalt:
		return r.Salt
	case FieldBirthdayOn:
		return r.BirthdayOn
	case FieldGender:
		return r.Gender
	}
	return Value{}
}

// SetField sets the named canonical field. Unknown names are ignored.
func (r *Record) SetField(name string, v Value) {
	switch name {
	case FieldID:
		r.ID = v
	case FieldLoginID:
		r.LoginID = v
	case FieldMailAddress:
		r.MailAddress = v
	case FieldPassword:
		r.Password = v
	case FieldCreatedAt:
		r.CreatedAt = v
	case FieldSalt:
		r.Salt = v
	case FieldBirthdayOn:
		r.BirthdayOn = v
	case FieldGender:
		r.Gender = v
	}
}

// Empty reports whether every canonical field is null.
func (r *Record) Empty() bool {
	for _, name := range Fields {
		if !r.Field(name).IsNull() {
			return false
		}
	}
	return true
}

// Row renders the record as a CSV row in canonical column order, nulls as
// empty cells.
func (r *Record) Row() []string {
	row := make([]string, len(Fields))
	for i, name := range Fields {
		if v, ok := r.Field(name).Get(); ok {
			row[i] = v
		}
	}
	return row
}
