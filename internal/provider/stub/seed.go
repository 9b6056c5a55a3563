package stub

// SeedCatalog returns the built-in demo catalog. Ids are stable so the
// derived prices stay stable across runs.
func SeedCatalog() []Item {
	return []Item{
		{
			ID:          "4aawyAB9vmqN3uQ7FjRGTy",
			Name:        "Global Warming",
			ReleaseDate: "2012-11-16",
			Genre:       "Pop",
			ImageURL:    "https://img.example/4aawyAB9vmqN3uQ7FjRGTy.jpg",
			Artists:     []Artist{{Name: "Pitbull", ProfileURL: "https://open.example/artist/pitbull"}},
			Tracks: []Track{
				{ID: "t-gw-1", Name: "Global Warming (Intro)", DurationMS: 85000, PreviewURL: "https://audio.example/t-gw-1"},
				{ID: "t-gw-2", Name: "Don't Stop the Party", DurationMS: 206120, PreviewURL: "https://audio.example/t-gw-2"},
			},
		},
		{
			ID:          "2up3OPMp9Tb4dAKM2erWXQ",
			Name:        "Night Visions",
			ReleaseDate: "2012-09-04",
			Genre:       "Alternative Rock",
			ImageURL:    "https://img.example/2up3OPMp9Tb4dAKM2erWXQ.jpg",
			Artists:     []Artist{{Name: "Imagine Dragons", ProfileURL: "https://open.example/artist/imaginedragons"}},
			Tracks: []Track{
				{ID: "t-nv-1", Name: "Radioactive", DurationMS: 186813, PreviewURL: "https://audio.example/t-nv-1"},
				{ID: "t-nv-2", Name: "Demons", DurationMS: 177506, PreviewURL: "https://audio.example/t-nv-2"},
			},
		},
		{
			ID:          "6akEvsycLGftJxYudPjmqK",
			Name:        "Random Access Memories",
			ReleaseDate: "2013-05-17",
			Genre:       "Electronic",
			ImageURL:    "https://img.example/6akEvsycLGftJxYudPjmqK.jpg",
			Artists:     []Artist{{Name: "Daft Punk", ProfileURL: "https://open.example/artist/daftpunk"}},
			Tracks: []Track{
				{ID: "t-ram-1", Name: "Get Lucky", DurationMS: 369626, PreviewURL: "https://audio.example/t-ram-1"},
				{ID: "t-ram-2", Name: "Instant Crush", DurationMS: 337560, PreviewURL: "https://audio.example/t-ram-2"},
			},
		},
		{
			ID:          "0sNOF9WDwhWunNAHPD3Baj",
			Name:        "She's So Unusual",
			ReleaseDate: "1983-10-14",
			Genre:       "Pop",
			ImageURL:    "https://img.example/0sNOF9WDwhWunNAHPD3Baj.jpg",
			Artists:     []Artist{{Name: "Cyndi Lauper", ProfileURL: "https://open.example/artist/cyndilauper"}},
			Tracks: []Track{
				{ID: "t-ssu-1", Name: "Girls Just Want to Have Fun", DurationMS: 238733, PreviewURL: "https://audio.example/t-ssu-1"},
				{ID: "t-ssu-2", Name: "Time After Time", DurationMS: 241026, PreviewURL: "https://audio.example/t-ssu-2"},
			},
		},
		{
			ID:          "1DFixLWuPkv3KT3TnV35m3",
			Name:        "Currents",
			ReleaseDate: "2015-07-17",
			Genre:       "Psychedelic",
			ImageURL:    "https://img.example/1DFixLWuPkv3KT3TnV35m3.jpg",
			Artists:     []Artist{{Name: "Tame Impala", ProfileURL: "https://open.example/artist/tameimpala"}},
			Tracks: []Track{
				{ID: "t-cur-1", Name: "Let It Happen", DurationMS: 467586, PreviewURL: "https://audio.example/t-cur-1"},
				{ID: "t-cur-2", Name: "The Less I Know the Better", DurationMS: 216320, PreviewURL: "https://audio.example/t-cur-2"},
			},
		},
		{
			ID:          "5Z9iiGl2FcIfa3BMiv6OIw",
			Name:        "Wish You Were Here",
			ReleaseDate: "1975-09-12",
			Genre:       "Progressive Rock",
			ImageURL:    "https://img.example/5Z9iiGl2FcIfa3BMiv6OIw.jpg",
			Artists:     []Artist{{Name: "Pink Floyd", ProfileURL: "https://open.example/artist/pinkfloyd"}},
			Tracks: []Track{
				{ID: "t-wywh-1", Name: "Shine On You Crazy Diamond", DurationMS: 811077, PreviewURL: "https://audio.example/t-wywh-1"},
				{ID: "t-wywh-2", Name: "Wish You Were Here", DurationMS: 334743, PreviewURL: "https://audio.example/t-wywh-2"},
			},
		},
	}
}
