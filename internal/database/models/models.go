package models

// All lists every entity in dependency order, parents first.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Buddy{},
		&NewHire{},
		&Association{},
		&Task{},
		&TaskAssignment{},
		&Meeting{},
		&MeetingNote{},
	}
}
