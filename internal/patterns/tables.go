package patterns

import "github.com/arcbjorn/formsense/pkg/fieldtype"

// exactTokens lists the literal tokens the exact strategy looks for inside
// attribute values. Everything is lower-case; attribute values are
// lower-cased at gathering time. Autocomplete token values (given-name,
// postal-code, cc-number, ...) are folded into the same lists since the
// exact strategy scans the autocomplete attribute too.
func exactTokens() map[fieldtype.Type][]string {
	return map[fieldtype.Type][]string{
		fieldtype.FirstName: {
			"firstname", "first_name", "first-name", "fname", "given-name", "givenname", "forename",
		},
		fieldtype.LastName: {
			"lastname", "last_name", "last-name", "lname", "surname", "family-name", "familyname",
		},
		fieldtype.FullName: {
			"fullname", "full_name", "full-name", "yourname", "your_name", "your-name", "realname",
		},
		fieldtype.Email: {
			"email", "e-mail", "emailaddress", "email_address", "email-address",
		},
		fieldtype.Phone: {
			"phone", "telephone", "mobile", "cellphone", "phonenumber", "phone_number", "phone-number", "tel",
		},
		fieldtype.Street: {
			"street", "address1", "address-1", "address_1", "addr1",
			"streetaddress", "street-address", "address-line1", "addressline1",
		},
		fieldtype.City: {
			"city", "town", "locality", "address-level2",
		},
		fieldtype.State: {
			"state", "province", "region", "address-level1",
		},
		fieldtype.Zip: {
			"zip", "zipcode", "zip_code", "zip-code", "postalcode", "postal-code", "postal_code", "postcode",
		},
		fieldtype.Country: {
			"country", "nation", "country-name",
		},
		fieldtype.CardNumber: {
			"cardnumber", "card_number", "card-number", "ccnumber", "cc-number", "cc_num", "creditcard", "credit-card",
		},
		fieldtype.CardCVV: {
			"cvv", "cvc", "cvv2", "securitycode", "security-code", "cc-csc", "csc",
		},
		fieldtype.CardExpiry: {
			"expiry", "expiration", "exp-date", "exp_date", "expdate", "cc-exp", "validthru", "valid-thru",
		},
		fieldtype.Company: {
			"company", "organization", "organisation", "employer", "company_name", "company-name",
		},
		fieldtype.JobTitle: {
			"jobtitle", "job_title", "job-title", "occupation", "designation", "organization-title",
		},
		fieldtype.Website: {
			"website", "homepage", "web-site", "weburl", "site_url",
		},
		fieldtype.SocialProfile: {
			"linkedin", "twitter", "github", "facebook", "instagram",
		},
	}
}

// fuzzyExprs lists the built-in fuzzy regexes, matched against name, id,
// placeholder, label and container text. Patterns include a few common
// non-English label words since labels on localized pages are the only
// usable signal there.
func fuzzyExprs() map[fieldtype.Type][]string {
	return map[fieldtype.Type][]string{
		fieldtype.FirstName: {
			`first[\s_-]*name`, `given[\s_-]*name`, `\bprenom\b`, `\bvorname\b`,
		},
		fieldtype.LastName: {
			`last[\s_-]*name`, `family[\s_-]*name`, `\bsurname\b`, `\bnachname\b`, `\bapellido`,
		},
		fieldtype.FullName: {
			`full[\s_-]*name`, `your[\s_-]*name`, `contact[\s_-]*name`, `^name$`,
		},
		fieldtype.Email: {
			`e[\s_-]*mail`, `email[\s_-]*address`, `\bcorreo\b`,
		},
		fieldtype.Phone: {
			`phone[\s_-]*(?:number|no)?`, `\bmobile\b`, `\btele?phone\b`, `contact[\s_-]*number`, `\btelefon`,
		},
		fieldtype.Street: {
			`street[\s_-]*address`, `address[\s_-]*line[\s_-]*1`, `\baddress\b`, `\bstrasse\b`, `\bdireccion\b`,
		},
		fieldtype.City: {
			`\bcity\b`, `\btown\b`, `\blocality\b`, `\bstadt\b`, `\bciudad\b`,
		},
		fieldtype.State: {
			`\bstate\b`, `\bprovince\b`, `\bregion\b`, `\bcounty\b`,
		},
		fieldtype.Zip: {
			`zip[\s_-]*code`, `postal[\s_-]*code`, `\bpost[\s_-]*code\b`, `\bzip\b`, `\bplz\b`,
		},
		fieldtype.Country: {
			`\bcountry\b`, `\bnation\b`, `\bpays\b`, `\bland\b`,
		},
		fieldtype.CardNumber: {
			`card[\s_-]*number`, `credit[\s_-]*card`, `\bcc[\s_-]*num`, `number[\s_-]*on[\s_-]*card`,
		},
		fieldtype.CardCVV: {
			`\bcvv2?\b`, `\bcvc\b`, `security[\s_-]*code`, `card[\s_-]*verification`,
		},
		fieldtype.CardExpiry: {
			`expir(?:y|ation)`, `exp[\s_-]*date`, `valid[\s_-]*(?:thru|until)`, `\bmm\s*/\s*yy`,
		},
		fieldtype.Company: {
			`\bcompany\b`, `organi[sz]ation`, `\bemployer\b`, `business[\s_-]*name`, `\bfirma\b`,
		},
		fieldtype.JobTitle: {
			`job[\s_-]*title`, `\bposition\b`, `\boccupation\b`, `\bdesignation\b`, `\brole\b`,
		},
		fieldtype.Website: {
			`\bwebsite\b`, `\bhomepage\b`, `web[\s_-]*site`, `\burl\b`,
		},
		fieldtype.SocialProfile: {
			`linked[\s_-]*in`, `\btwitter\b`, `\bgithub\b`, `\binstagram\b`, `social[\s_-]*(?:profile|media)`,
		},
	}
}

// shapeExprs lists value-shape regexes, matched against the placeholder and
// the stringified declared max length. The max-length entries (e.g. ^16$
// for card numbers) mirror how real markup constrains these fields.
func shapeExprs() map[fieldtype.Type][]string {
	return map[fieldtype.Type][]string{
		fieldtype.Email: {
			`^[^@\s]+@[^@\s]+\.[a-z]{2,}$`,
		},
		fieldtype.Phone: {
			`^\(?\d{3}\)?[\s.-]?\d{3}[\s.-]?\d{4}$`,
			`^\+?\d[\d\s-]{7,14}$`,
		},
		fieldtype.Zip: {
			`^\d{5}(?:-\d{4})?$`,
			`^(?:5|10)$`,
		},
		fieldtype.State: {
			`^[a-z]{2}$`,
		},
		fieldtype.CardNumber: {
			`^\d{4}[\s-]?\d{4}[\s-]?\d{4}[\s-]?\d{4}$`,
			`^(?:16|19)$`,
		},
		fieldtype.CardCVV: {
			`^\d{3,4}$`,
			`^[34]$`,
		},
		fieldtype.CardExpiry: {
			`^(?:0?\d|1[0-2])\s*/\s*\d{2,4}$`,
			`^mm\s*/\s*yy(?:yy)?$`,
		},
		fieldtype.Website: {
			`^https?://`,
			`^www\.`,
		},
	}
}
