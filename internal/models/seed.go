package models

// SeedEmployees returns the collection shown before anything has been stored remotely.
// Identifiers are fixed so share links to seed cards survive restarts.
func SeedEmployees() []Employee {
	return []Employee{
		{
			ID:          "6f1c2a8e-3b7d-4c59-9a41-0d2e5b8f7c10",
			Name:        "Alice Johnson",
			Designation: "Senior Software Engineer",
			Email:       "alice.j@selcoindia.com",
			Phone:       "+1-202-555-0191",
			Department:  "Technology",
			PhotoURL:    "https://picsum.photos/seed/alice/400/400",
			LinkedIn:    "https://linkedin.com/in/alicejohnson",
			Website:     "https://alicej.dev",
		},
		{
			ID:          "b2e4d6f8-1a3c-4e5f-8b7d-9c0a2e4f6b81",
			Name:        "Bob Williams",
			Designation: "Product Manager",
			Email:       "bob.w@selcoindia.com",
			Phone:       "+1-202-555-0164",
			Department:  "Product",
			PhotoURL:    "https://picsum.photos/seed/bob/400/400",
			LinkedIn:    "https://linkedin.com/in/bobwilliams",
		},
		{
			ID:          "d9a7c5e3-8f1b-4d2a-b6c4-e8f0a2c4d6e2",
			Name:        "Charlie Brown",
			Designation: "UX/UI Designer",
			Email:       "charlie.b@selcoindia.com",
			Phone:       "+1-202-555-0138",
			Department:  "Design",
			PhotoURL:    "https://picsum.photos/seed/charlie/400/400",
			Website:     "https://charlieb.design",
		},
	}
}
