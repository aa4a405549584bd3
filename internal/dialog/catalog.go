package dialog

type sphere struct {
	key         string
	professions []string
}

var spheres = []sphere{
	{key: "it", professions: []string{"backend", "frontend", "qa", "devops"}},
	{key: "sales", professions: []string{"sales_manager", "account_manager"}},
	{key: "marketing", professions: []string{"smm", "marketer"}},
	{key: "design", professions: []string{"ui_ux", "graphic"}},
	{key: "finance", professions: []string{"accountant", "analyst"}},
}

var languages = []string{"english", "russian", "german", "french", "spanish", "chinese", "turkish"}

var levels = []string{"a1", "a2", "b1", "b2", "c1", "c2", "native"}

func findSphere(key string) (sphere, bool) {
	for _, s := range spheres {
		if s.key == key {
			return s, true
		}
	}
	return sphere{}, false
}
