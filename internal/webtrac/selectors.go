package webtrac

// Selector fallback chains for the WebTrac markup. The site is
// unversioned; each chain is tried in order and the first selector that
// matches the live page wins. If the site's structure drifts past every
// candidate, the attempt reports the slot as unavailable and the next
// interval pass tries again.
var (
	dateFieldCandidates = []string{
		`input[type="date"]`,
		`input[name*="date" i]`,
		`input[id*="date" i]`,
	}

	playerSelectCandidates = []string{
		`select[name*="numberofplayers" i]`,
		`select[name*="players" i]`,
		`select[id*="players" i]`,
	}

	beginTimeCandidates = []string{
		`select[name*="begintime" i]`,
		`select[name*="time" i]`,
		`select[id*="time" i]`,
	}

	resultTableCandidates = []string{
		`table#frwebsearch_output_table`,
		`table.result-table`,
		`table`,
	}

	// The green "add to cart" icon on an available result row. Rows
	// that are sold out carry the error class instead.
	cartButtonCandidates = []string{
		`a.cart-button:not(.error)`,
		`a.cart-button.success`,
		`a.cart-button[title*="Available"]`,
		`a.cart-button[aria-label*="Available"]`,
	}

	loginUserCandidates = []string{
		`input[name*="user" i]`,
		`input[id*="user" i]`,
		`input[type="text"]`,
	}

	loginPasswordCandidates = []string{
		`input[type="password"]`,
	}

	firstNameCandidates = []string{
		`input[name*="firstname" i]`,
		`input[id*="firstname" i]`,
	}

	lastNameCandidates = []string{
		`input[name*="lastname" i]`,
		`input[id*="lastname" i]`,
	}

	emailCandidates = []string{
		`input[type="email"]`,
		`input[name*="email" i]`,
	}

	phoneCandidates = []string{
		`input[type="tel"]`,
		`input[name*="phone" i]`,
	}

	confirmationCandidates = []string{
		`.confirmation`,
		`#confirmation`,
		`[id*="receipt" i]`,
		`[class*="receipt" i]`,
	}
)
