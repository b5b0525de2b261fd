package catalog

import "bookhaven/pkg/domain"

// defaultBooks is the built-in storefront inventory. Ids are stable and
// referenced by persisted carts, so entries must never be renumbered.
var defaultBooks = []domain.Book{
	{ID: "1", Title: "The Midnight Library", Author: "Matt Haig", Price: 16.99, OriginalPrice: 26.00, Description: "Between life and death there is a library where every book is a different life you could have lived.", Genre: domain.GenreFiction, Rating: 4.5, ReviewCount: 48231, PublishedYear: 2020, Pages: 304, ISBN: "9780525559474", InStock: true, Featured: true},
	{ID: "2", Title: "Where the Crawdads Sing", Author: "Delia Owens", Price: 14.99, Description: "A coming-of-age murder mystery set in the marshes of North Carolina.", Genre: domain.GenreFiction, Rating: 4.7, ReviewCount: 102455, PublishedYear: 2018, Pages: 384, ISBN: "9780735219090", InStock: true, Bestseller: true},
	{ID: "3", Title: "The Great Alone", Author: "Kristin Hannah", Price: 15.99, Description: "A family moves to the Alaskan wilderness and discovers the danger lies within.", Genre: domain.GenreFiction, Rating: 4.4, ReviewCount: 35110, PublishedYear: 2018, Pages: 440, ISBN: "9780312577230", InStock: true},
	{ID: "4", Title: "The Silent Patient", Author: "Alex Michaelides", Price: 17.99, Description: "A woman shoots her husband and never speaks another word.", Genre: domain.GenreMystery, Rating: 4.3, ReviewCount: 67320, PublishedYear: 2019, Pages: 336, ISBN: "9781250301697", InStock: true, Bestseller: true},
	{ID: "5", Title: "Gone Girl", Author: "Gillian Flynn", Price: 13.99, Description: "On their fifth wedding anniversary, Amy Dunne disappears.", Genre: domain.GenreMystery, Rating: 4.1, ReviewCount: 89440, PublishedYear: 2012, Pages: 432, ISBN: "9780307588371", InStock: true},
	{ID: "6", Title: "The Girl with the Dragon Tattoo", Author: "Stieg Larsson", Price: 14.99, Description: "A journalist and a hacker investigate a forty-year-old disappearance.", Genre: domain.GenreMystery, Rating: 4.2, ReviewCount: 54012, PublishedYear: 2005, Pages: 465, ISBN: "9780307454546", InStock: true},
	{ID: "7", Title: "Project Hail Mary", Author: "Andy Weir", Price: 18.99, OriginalPrice: 28.99, Description: "A lone astronaut wakes with no memory and the fate of two worlds on his shoulders.", Genre: domain.GenreSciFi, Rating: 4.8, ReviewCount: 71293, PublishedYear: 2021, Pages: 496, ISBN: "9780593135204", InStock: true, Featured: true, Bestseller: true},
	{ID: "8", Title: "Dune", Author: "Frank Herbert", Price: 16.99, Description: "The desert planet Arrakis holds the most precious substance in the universe.", Genre: domain.GenreSciFi, Rating: 4.6, ReviewCount: 93877, PublishedYear: 1965, Pages: 688, ISBN: "9780441172719", InStock: true},
	{ID: "9", Title: "The Martian", Author: "Andy Weir", Price: 14.99, Description: "An astronaut stranded on Mars refuses to die.", Genre: domain.GenreSciFi, Rating: 4.7, ReviewCount: 80154, PublishedYear: 2014, Pages: 384, ISBN: "9780553418026", InStock: true},
	{ID: "10", Title: "It Ends with Us", Author: "Colleen Hoover", Price: 15.99, Description: "Lily's relationship with a magnetic neurosurgeon forces her to confront her past.", Genre: domain.GenreRomance, Rating: 4.4, ReviewCount: 112034, PublishedYear: 2016, Pages: 384, ISBN: "9781501110368", InStock: true, Bestseller: true},
	{ID: "11", Title: "The Notebook", Author: "Nicholas Sparks", Price: 12.99, Description: "A love story read aloud from a faded notebook.", Genre: domain.GenreRomance, Rating: 4.2, ReviewCount: 41200, PublishedYear: 1996, Pages: 214, ISBN: "9780446520805", InStock: true},
	{ID: "12", Title: "Beach Read", Author: "Emily Henry", Price: 14.99, Description: "Two rival writers swap genres for a summer.", Genre: domain.GenreRomance, Rating: 4.3, ReviewCount: 38675, PublishedYear: 2020, Pages: 384, ISBN: "9781984806734", InStock: true},
	{ID: "13", Title: "The Name of the Wind", Author: "Patrick Rothfuss", Price: 17.99, Description: "The legend Kvothe tells the true story of his own life.", Genre: domain.GenreFantasy, Rating: 4.6, ReviewCount: 62410, PublishedYear: 2007, Pages: 662, ISBN: "9780756404741", InStock: true, Featured: true},
	{ID: "14", Title: "A Court of Thorns and Roses", Author: "Sarah J. Maas", Price: 16.99, Description: "A huntress is dragged into a treacherous faerie world.", Genre: domain.GenreFantasy, Rating: 4.5, ReviewCount: 97210, PublishedYear: 2015, Pages: 419, ISBN: "9781635575569", InStock: true},
	{ID: "15", Title: "The Way of Kings", Author: "Brandon Sanderson", Price: 19.99, Description: "On the storm-swept world of Roshar, war rages over ancient oaths.", Genre: domain.GenreFantasy, Rating: 4.7, ReviewCount: 55820, PublishedYear: 2010, Pages: 1007, ISBN: "9780765326355", InStock: true},
	{ID: "16", Title: "Atomic Habits", Author: "James Clear", Price: 18.99, OriginalPrice: 27.00, Description: "Tiny changes, remarkable results: a proven framework for building good habits.", Genre: domain.GenreNonFiction, Rating: 4.8, ReviewCount: 134982, PublishedYear: 2018, Pages: 320, ISBN: "9780735211292", InStock: true, Featured: true, Bestseller: true},
	{ID: "17", Title: "Thinking, Fast and Slow", Author: "Daniel Kahneman", Price: 15.99, Description: "The two systems that drive the way we think.", Genre: domain.GenreNonFiction, Rating: 4.5, ReviewCount: 58230, PublishedYear: 2011, Pages: 499, ISBN: "9780374533557", InStock: true},
	{ID: "18", Title: "Sapiens", Author: "Yuval Noah Harari", Price: 17.99, Description: "A brief history of humankind, from the Stone Age to the present.", Genre: domain.GenreNonFiction, Rating: 4.6, ReviewCount: 88460, PublishedYear: 2011, Pages: 443, ISBN: "9780062316097", InStock: true},
	{ID: "19", Title: "The Da Vinci Code", Author: "Dan Brown", Price: 14.99, Description: "A murder in the Louvre unlocks a trail of hidden symbols.", Genre: domain.GenreThriller, Rating: 4.1, ReviewCount: 76540, PublishedYear: 2003, Pages: 454, ISBN: "9780307474278", InStock: true},
	{ID: "20", Title: "The Girl on the Train", Author: "Paula Hawkins", Price: 13.99, Description: "A commuter sees something shocking from her train window.", Genre: domain.GenreThriller, Rating: 4.0, ReviewCount: 69310, PublishedYear: 2015, Pages: 336, ISBN: "9781594634024", InStock: true},
	{ID: "21", Title: "Before I Go to Sleep", Author: "S.J. Watson", Price: 14.99, Description: "Every morning Christine wakes with no memory of the last twenty years.", Genre: domain.GenreThriller, Rating: 4.2, ReviewCount: 28900, PublishedYear: 2011, Pages: 368, ISBN: "9780062060563", InStock: false},
	{ID: "22", Title: "Becoming", Author: "Michelle Obama", Price: 19.99, Description: "The former First Lady's deeply personal memoir.", Genre: domain.GenreBiography, Rating: 4.7, ReviewCount: 105220, PublishedYear: 2018, Pages: 448, ISBN: "9781524763138", InStock: true, Bestseller: true},
	{ID: "23", Title: "Steve Jobs", Author: "Walter Isaacson", Price: 17.99, Description: "The exclusive biography based on more than forty interviews.", Genre: domain.GenreBiography, Rating: 4.5, ReviewCount: 47230, PublishedYear: 2011, Pages: 656, ISBN: "9781451648539", InStock: true},
	{ID: "24", Title: "Educated", Author: "Tara Westover", Price: 16.99, Description: "A memoir of a childhood in the Idaho mountains and the transformative power of education.", Genre: domain.GenreBiography, Rating: 4.6, ReviewCount: 81740, PublishedYear: 2018, Pages: 334, ISBN: "9780399590504", InStock: true},
	{ID: "25", Title: "The Alchemist", Author: "Paulo Coelho", Price: 12.99, Description: "A shepherd boy travels in search of a worldly treasure.", Genre: domain.GenreFiction, Rating: 4.3, ReviewCount: 93650, PublishedYear: 1988, Pages: 208, ISBN: "9780062315007", InStock: true},
	{ID: "26", Title: "Circe", Author: "Madeline Miller", Price: 15.99, Description: "The witch of Aiaia tells her own story.", Genre: domain.GenreFantasy, Rating: 4.4, ReviewCount: 52140, PublishedYear: 2018, Pages: 393, ISBN: "9780316556347", InStock: true},
	{ID: "27", Title: "1984", Author: "George Orwell", Price: 11.99, Description: "Big Brother is watching you.", Genre: domain.GenreFiction, Rating: 4.5, ReviewCount: 120340, PublishedYear: 1949, Pages: 328, ISBN: "9780451524935", InStock: true},
	{ID: "28", Title: "The Catcher in the Rye", Author: "J.D. Salinger", Price: 10.99, Description: "Holden Caulfield's three days adrift in New York.", Genre: domain.GenreFiction, Rating: 4.0, ReviewCount: 65410, PublishedYear: 1951, Pages: 277, ISBN: "9780316769488", InStock: true},
	{ID: "29", Title: "The Hobbit", Author: "J.R.R. Tolkien", Price: 14.99, Description: "Bilbo Baggins is swept into an epic quest to reclaim Erebor.", Genre: domain.GenreFantasy, Rating: 4.7, ReviewCount: 110230, PublishedYear: 1937, Pages: 310, ISBN: "9780547928227", InStock: true},
	{ID: "30", Title: "And Then There Were None", Author: "Agatha Christie", Price: 12.99, Description: "Ten strangers are lured to an island, and one by one they die.", Genre: domain.GenreMystery, Rating: 4.6, ReviewCount: 73890, PublishedYear: 1939, Pages: 272, ISBN: "9780062073488", InStock: true},
}
