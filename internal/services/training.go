package services

// TrainingExample is one labeled form-field example used to seed the
// nearest-neighbor classifier.
type TrainingExample struct {
	Label    string
	Category string
}

// TrainingData is the fixed labeled example set covering the common label
// wordings seen across application forms, including ATS-specific variants
// and "none" examples for fields that must never be autofilled.
var TrainingData = []TrainingExample{
	// Name fields
	{"First Name", "first_name"},
	{"Last Name", "last_name"},
	{"Full Name", "first_name"},
	{"Given Name", "first_name"},
	{"Family Name", "last_name"},
	{"Surname", "last_name"},
	{"Your Name", "first_name"},
	{"Legal First Name", "first_name"},
	{"Legal Last Name", "last_name"},
	{"Preferred Name", "first_name"},
	{"Name", "first_name"},

	// Contact information
	{"Email", "email"},
	{"Email Address", "email"},
	{"Work Email", "email"},
	{"Personal Email", "email"},
	{"Contact Email", "email"},
	{"E-mail", "email"},
	{"Phone", "phone"},
	{"Phone Number", "phone"},
	{"Mobile", "phone"},
	{"Mobile Number", "phone"},
	{"Cell Phone", "phone"},
	{"Telephone", "phone"},
	{"Contact Number", "phone"},
	{"Home Phone", "phone"},
	{"Work Phone", "phone"},
	{"Primary Phone", "phone"},

	// Work information
	{"Company", "current_company"},
	{"Current Company", "current_company"},
	{"Employer", "current_company"},
	{"Organization", "current_company"},
	{"Current Employer", "current_company"},
	{"Company Name", "current_company"},
	{"Most Recent Employer", "current_company"},
	{"Job Title", "current_title"},
	{"Current Title", "current_title"},
	{"Position", "current_title"},
	{"Role", "current_title"},
	{"Current Position", "current_title"},
	{"Current Role", "current_title"},
	{"Title", "current_title"},
	{"Occupation", "current_title"},
	{"Most Recent Job Title", "current_title"},
	{"Previous Company", "previous_company"},
	{"Former Employer", "previous_company"},
	{"Previous Title", "previous_title"},
	{"Former Role", "previous_title"},

	// Education
	{"School", "education_school"},
	{"University", "education_school"},
	{"College", "education_school"},
	{"Institution", "education_school"},
	{"Educational Institution", "education_school"},
	{"Alma Mater", "education_school"},
	{"School Name", "education_school"},
	{"Degree", "degree"},
	{"Education Level", "degree"},
	{"Qualification", "degree"},
	{"Academic Degree", "degree"},
	{"Major", "degree"},
	{"Field of Study", "degree"},
	{"Highest Level of Education", "degree"},

	// Skills and experience
	{"Skills", "skills"},
	{"Technical Skills", "skills"},
	{"Core Skills", "skills"},
	{"Key Skills", "skills"},
	{"Expertise", "skills"},
	{"Technologies", "skills"},
	{"Programming Languages", "skills"},
	{"Years of Experience", "experience_years"},
	{"Experience", "experience_years"},
	{"How many years of experience do you have?", "experience_years"},

	// Professional links
	{"LinkedIn", "linkedin"},
	{"LinkedIn URL", "linkedin"},
	{"LinkedIn Profile", "linkedin"},
	{"LinkedIn profile", "linkedin"},
	{"Portfolio", "website"},
	{"Website", "website"},
	{"Personal Website", "website"},
	{"Portfolio URL", "website"},
	{"Personal website or portfolio", "website"},
	{"GitHub", "github"},
	{"GitHub Profile", "github"},
	{"GitHub URL", "github"},

	// Summary
	{"Summary", "summary"},
	{"Professional Summary", "summary"},
	{"About", "summary"},
	{"Bio", "summary"},
	{"Biography", "summary"},
	{"Tell us about yourself", "summary"},
	{"Tell us about your experience", "summary"},

	// Common form variations
	{"Please enter your first name", "first_name"},
	{"What is your email address?", "email"},
	{"Your phone number", "phone"},
	{"Current company name", "current_company"},
	{"What is your current job title?", "current_title"},
	{"Where did you go to school?", "education_school"},
	{"What degree do you have?", "degree"},
	{"List your skills", "skills"},
	{"Your LinkedIn profile URL", "linkedin"},

	// Workday specific
	{"Legal Name - First Name", "first_name"},
	{"Legal Name - Last Name", "last_name"},
	{"Primary Email", "email"},

	// Fields that must never be autofilled
	{"Password", "none"},
	{"Confirm Password", "none"},
	{"Upload Resume", "none"},
	{"Upload CV", "none"},
	{"Resume", "none"},
	{"Profile Picture", "none"},
	{"Photo", "none"},
	{"Captcha", "none"},
	{"I agree to terms", "none"},
	{"Terms and Conditions", "none"},
	{"Privacy Policy", "none"},
	{"Subscribe to newsletter", "none"},
	{"How did you hear about this job?", "none"},
}
