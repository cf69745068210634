package authdash

const (
	usernameStartPattern = `^[a-zA-Z]`
	usernameSpacePattern = `^\S*$`
	usernamePattern      = `^[a-zA-Z][a-zA-Z0-9_.]*$`
	emailPattern         = `^[\w.%+-]+@[a-zA-Z\d.-]+\.[a-zA-Z]{2,}$`
)

func usernameRules() []Rule {
	return []Rule{
		Required("Username required"),
		MinLen(3, "Username too short"),
		MaxLen(20, "Username too long"),
		Matches(usernameStartPattern, "Username must start with a letter"),
		Matches(usernameSpacePattern, "Username cannot contain spaces"),
		Matches(usernamePattern, "Invalid username"),
	}
}

func emailRules() []Rule {
	return []Rule{
		Required("Email required"),
		Matches(emailPattern, "Enter a valid email"),
	}
}

// passwordRules builds the password rules, prefixing messages with subject
// ("Password", "Current password", ...)
func passwordRules(subject string) []Rule {
	return []Rule{
		Required(subject + " required"),
		MinLen(6, subject+" too short"),
		MaxLen(128, subject+" too long"),
	}
}

// LoginSchema validates the login form
var LoginSchema = &Schema{
	Name: "login",
	Fields: []FieldSpec{
		{Name: "email", Kind: FieldEmail, Label: "email address", Placeholder: "Enter your email...", Rules: emailRules()},
		{Name: "password", Kind: FieldPassword, Label: "password", Placeholder: "Enter your password...", Rules: passwordRules("Password")},
	},
}

// RegisterSchema validates the registration form
var RegisterSchema = &Schema{
	Name: "register",
	Fields: []FieldSpec{
		{Name: "username", Kind: FieldText, Label: "username", Placeholder: "Enter a username...", Rules: usernameRules()},
		{Name: "email", Kind: FieldEmail, Label: "email address", Placeholder: "Enter your email...", Rules: emailRules()},
		{Name: "password", Kind: FieldPassword, Label: "password", Placeholder: "Enter your password...", Rules: passwordRules("Password")},
	},
}

// ChangeUsernameSchema validates the change-username modal
var ChangeUsernameSchema = &Schema{
	Name: "change-username",
	Fields: []FieldSpec{
		{Name: "username", Kind: FieldText, Label: "username", Placeholder: "Enter a new username...", Rules: usernameRules()},
	},
}

// ChangePasswordSchema validates the change-password modal
var ChangePasswordSchema = &Schema{
	Name: "change-password",
	Fields: []FieldSpec{
		{Name: "currentPassword", Kind: FieldPassword, Label: "your current password", Placeholder: "Current password...", Rules: passwordRules("Current password")},
		{Name: "newPassword", Kind: FieldPassword, Label: "new password", Placeholder: "New password...", Rules: passwordRules("New password")},
	},
}

// DeleteAccountSchema is the field-less confirmation form
var DeleteAccountSchema = &Schema{Name: "delete-account"}
