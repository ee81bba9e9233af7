package seeder

func Defaults() []Seeder {
	return []Seeder{
		ProfilesSeeder{},
		JobsSeeder{},
	}
}
