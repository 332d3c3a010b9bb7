package db

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func strPtr(s string) *string   { return &s }
func f64Ptr(f float64) *float64 { return &f }
func u64Ptr(u uint64) *uint64   { return &u }

func datePtr(y, m, d int) *time.Time {
	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	return &t
}

// SeedTestData resets the database and populates it with a demo catalog,
// users, partners and a few likes. Development only.
//
// The catalog deliberately includes the awkward rows the request path has
// to cope with: movies without a platform, without a rating, without a
// release date, without a poster, and without any genre mapping.
func SeedTestData(db *gorm.DB) error {
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	tables := []string{"collections", "movie_sentiments", "partners", "users", "movie_genres", "movies", "genres"}
	for _, tbl := range tables {
		if err := db.Exec("DELETE FROM " + tbl).Error; err != nil {
			return fmt.Errorf("failed to clear %s: %w", tbl, err)
		}
	}

	switch db.Dialector.Name() {
	case "mysql":
		for _, tbl := range tables {
			db.Exec("ALTER TABLE " + tbl + " AUTO_INCREMENT = 1")
		}
	case "sqlite":
		for _, tbl := range tables {
			db.Exec("DELETE FROM sqlite_sequence WHERE name = ?", tbl)
		}
	}

	log.Println("Cleared existing data")

	genres := []Genre{
		{ID: 28, Name: "Aksiyon"},
		{ID: 35, Name: "Komedi"},
		{ID: 18, Name: "Dram"},
		{ID: 27, Name: "Korku"},
		{ID: 10749, Name: "Romantik"},
		{ID: 878, Name: "Bilim Kurgu"},
	}
	if err := db.Create(&genres).Error; err != nil {
		return fmt.Errorf("failed to seed genres: %w", err)
	}

	platforms := []*string{
		strPtr("Netflix"),
		strPtr("Amazon Prime Video"),
		strPtr("Disney Plus"),
		strPtr("MUBI"),
		strPtr("Sinema"),
		nil, // not yet classified
	}

	for i := 1; i <= 30; i++ {
		movie := Movie{
			TmdbID:      u64Ptr(uint64(100000 + i)),
			Title:       fmt.Sprintf("Demo Film %d", i),
			Overview:    fmt.Sprintf("Demo film %d hakkında kısa bir özet.", i),
			PosterURL:   strPtr(fmt.Sprintf("/demo%d.jpg", i)),
			VoteAverage: f64Ptr(float64(r.Intn(60)+30) / 10.0),
			VoteCount:   r.Intn(5000) + 20,
			ReleaseDate: datePtr(1990+r.Intn(35), r.Intn(12)+1, r.Intn(28)+1),
			Platform:    platforms[i%len(platforms)],
		}
		switch {
		case i%9 == 0:
			movie.VoteAverage = nil
		case i%10 == 0:
			movie.ReleaseDate = nil
		case i%11 == 0:
			movie.PosterURL = nil
		}
		if err := db.Create(&movie).Error; err != nil {
			return fmt.Errorf("failed to seed movie: %w", err)
		}

		// every 7th movie stays genre-less on purpose
		if i%7 != 0 {
			picks := r.Perm(len(genres))[:r.Intn(2)+1]
			for _, p := range picks {
				link := MovieGenre{MovieID: movie.ID, GenreID: genres[p].ID}
				db.Clauses(clause.OnConflict{DoNothing: true}).Create(&link)
			}
		}
	}
	log.Println("Seeded 30 movies.")

	users := []User{{Username: "ayse"}, {Username: "mehmet"}, {Username: "zeynep"}}
	if err := db.Create(&users).Error; err != nil {
		return fmt.Errorf("failed to seed users: %w", err)
	}

	partners := []Partner{
		{UserID: users[0].ID, Name: "Deniz"},
		{UserID: users[0].ID, Name: "Annem"},
		{UserID: users[1].ID, Name: "Elif"},
	}
	if err := db.Create(&partners).Error; err != nil {
		return fmt.Errorf("failed to seed partners: %w", err)
	}

	likes := []CollectionEntry{
		{UserID: users[0].ID, MovieID: 1},
		{UserID: users[0].ID, MovieID: 2, PartnerID: &partners[0].ID},
		{UserID: users[0].ID, MovieID: 3, PartnerID: &partners[0].ID},
		{UserID: users[1].ID, MovieID: 1},
	}
	for i := range likes {
		if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&likes[i]).Error; err != nil {
			return fmt.Errorf("failed to seed collection entry: %w", err)
		}
	}

	return nil
}

// SeedMinimalTestData wipes the DB and inserts a small deterministic
// dataset for repeatable tests.
func SeedMinimalTestData(db *gorm.DB) error {
	for _, tbl := range []string{"collections", "movie_sentiments", "partners", "users", "movie_genres", "movies", "genres"} {
		if err := db.Exec("DELETE FROM " + tbl).Error; err != nil {
			return err
		}
	}

	genres := []Genre{
		{ID: 28, Name: "Aksiyon"},
		{ID: 35, Name: "Komedi"},
		{ID: 18, Name: "Dram"},
	}
	if err := db.Create(&genres).Error; err != nil {
		return err
	}

	movies := []Movie{
		{ID: 1, Title: "Gece Yolcusu", Overview: "Bir gece yolculuğu.", PosterURL: strPtr("/gece.jpg"),
			VoteAverage: f64Ptr(7.8), VoteCount: 120, ReleaseDate: datePtr(2019, 5, 1), Platform: strPtr("Netflix")},
		{ID: 2, Title: "Son Perde", Overview: "Sahne arkası dramı.", PosterURL: strPtr("https://cdn.example.com/son-perde.jpg"),
			VoteAverage: f64Ptr(6.4), VoteCount: 80, ReleaseDate: datePtr(2005, 11, 12), Platform: strPtr("Amazon Prime Video")},
		{ID: 3, Title: "Kahkaha Evi", Overview: "", PosterURL: nil,
			VoteAverage: nil, VoteCount: 15, ReleaseDate: datePtr(2021, 2, 20), Platform: nil},
		{ID: 4, Title: "Derin Sular", Overview: "Açık denizde hayatta kalma.", PosterURL: strPtr("derin.jpg"),
			VoteAverage: f64Ptr(8.1), VoteCount: 900, ReleaseDate: nil, Platform: strPtr("Sinema")},
		{ID: 5, Title: "Eski Defter", Overview: "Bir kasabanın sırları.", PosterURL: strPtr("/defter.jpg"),
			VoteAverage: f64Ptr(5.9), VoteCount: 40, ReleaseDate: datePtr(1998, 7, 3), Platform: strPtr("")},
	}
	if err := db.Create(&movies).Error; err != nil {
		return err
	}

	// movie 3 has no genre rows at all
	links := []MovieGenre{
		{MovieID: 1, GenreID: 28},
		{MovieID: 1, GenreID: 18},
		{MovieID: 2, GenreID: 18},
		{MovieID: 4, GenreID: 28},
		{MovieID: 5, GenreID: 35},
	}
	if err := db.Create(&links).Error; err != nil {
		return err
	}

	users := []User{
		{ID: 1, Username: "ayse"},
		{ID: 2, Username: "mehmet"},
	}
	if err := db.Create(&users).Error; err != nil {
		return err
	}

	partners := []Partner{
		{ID: 1, UserID: 1, Name: "Deniz"},
		{ID: 2, UserID: 2, Name: "Elif"},
	}
	return db.Create(&partners).Error
}
