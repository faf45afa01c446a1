package faker

var firstNames = []string{
	"James", "Mary", "John", "Patricia", "Robert", "Jennifer", "Michael", "Linda",
	"William", "Elizabeth", "David", "Barbara", "Richard", "Susan", "Joseph", "Jessica",
	"Lucia", "Pablo", "Sara", "Hugo",
}

var lastNames = []string{
	"Smith", "Johnson", "Williams", "Brown", "Jones", "Garcia", "Miller", "Davis",
	"Rodriguez", "Martinez", "Hernandez", "Lopez", "Wilson", "Anderson", "Taylor", "Moore",
}

var words = []string{
	"lorem", "ipsum", "dolor", "sit", "amet", "consectetur", "adipiscing", "elit",
	"sed", "do", "eiusmod", "tempor", "incididunt", "ut", "labore", "et", "dolore",
	"magna", "aliqua", "enim", "minim", "veniam", "quis", "nostrud", "exercitation",
}

var cities = []string{
	"New York", "London", "Madrid", "Paris", "Berlin", "Tokyo", "Shanghai", "Sydney",
	"Toronto", "Lisbon", "Rome", "Seoul", "Mexico City", "Cairo", "Mumbai", "Boston",
}

var domains = []string{"example.com", "example.org", "test.com", "mock.io"}

var topLevelDomains = []string{"com", "org", "net", "io", "dev"}
