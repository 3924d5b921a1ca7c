package dlc

import "strconv"

// FallbackTable maps DLC id to a curated display name. It is consulted only for
// hidden DLC the metadata service cannot name.
type FallbackTable map[int]string

// Lookup returns the curated name for id, if any. Non-numeric ids never match.
func (t FallbackTable) Lookup(id string) (string, bool) {
	n, err := strconv.Atoi(id)
	if err != nil {
		return "", false
	}
	name, ok := t[n]
	return name, ok
}

// DefaultFallbackNames returns the built-in table. The returned map is shared;
// callers must not modify it.
func DefaultFallbackNames() FallbackTable {
	return fallbackNames
}

var fallbackNames = FallbackTable{
	// Crusader Kings III
	1359040: "Crusader Kings III: Expansion Pass",
	2812400: "Crusader Kings III: Chapter III",
	3486700: "Crusader Kings III: Chapter IV",

	// Hearts of Iron IV
	1032150: "Hearts of Iron IV: Man the Guns Wallpaper (Pre-Order)",
	1206030: "Hearts of Iron IV: La Résistance Pre-Order Bonus",
	1785140: "Hearts of Iron IV: No Step Back - Katyusha (Pre-Order Bonus)",
	1880660: "Hearts of Iron IV: By Blood Alone (Pre-Order Bonus)",
	2280250: "Hearts of Iron IV: Arms Against Tyranny - Säkkijärven Polkka",
	2786480: "Country Pack - Hearts of Iron IV: Trial of Allegiance Pre-order Bonus",
	3152810: "Hearts of Iron IV: Expansion Pass 1",
	3152820: "Expansion pass 1 Bonus - Hearts of Iron IV: Supporter Pack",
	3152840: "Expansion Pass 1 Bonus - Hearts of Iron IV: Ride of the Valkyries Music",
	445630:  "Hearts of Iron IV: War Stories",
	460550:  "Hearts of Iron IV: German Tanks Pack",
	460551:  "Hearts of Iron IV: French Tanks Pack",
	460553:  "Hearts of Iron IV: Heavy Cruisers Unit Pack",
	460554:  "Hearts of Iron IV: Soviet Tanks Unit Pack",
	460555:  "Hearts of Iron IV: US Tanks Unit Pack",
	460556:  "Hearts of Iron IV: British Tanks Unit Pack",
	460557:  "Hearts of Iron IV: German March Order Music Pack",
	460558:  "Hearts of Iron IV: Allied Radio Music Pack",
	460559:  "Hearts of Iron IV: Rocket Launcher Unit Pack",
	460600:  "Hearts of Iron IV: Poland - United and Ready",
	460610:  "Hearts of Iron IV: German Historical Portraits",
	472410:  "Hearts of Iron IV: Wallpaper",
	473130:  "Hearts of Iron IV: Artbook",
	554840:  "Hearts of Iron IV: Expansion Pass DLC",
	616200:  "Hearts of Iron IV: Colonel Edition Upgrade Pack",

	// Victoria 3
	2071470: "Victoria 3: Victoria II Remastered Songs",
	2071472: "Victoria 3 - Expansion Pass",
	2366580: "Victoria 3: French Agitators Bonus Pack",
	3596990: "Victoria 3: Ultimate Bundle",

	// Stellaris
	447680:  "Stellaris: Symbols of Domination",
	447681:  "Stellaris: Sign-up Campaign Bonus",
	447682:  "Stellaris: Digital Artbook",
	447683:  "Stellaris: Arachnoid Portrait Pack",
	447684:  "Stellaris: Digital OST",
	447685:  "Stellaris: Signed High-res Wallpaper",
	447686:  "Stellaris: Novel by Steven Savile",
	447687:  "Stellaris: Ringtones",
	461071:  "Stellaris (Pre-Order) (99330)",
	461073:  "Stellaris - Nova (Pre-Order) - Termination 99329",
	461461:  "Stellaris - Galaxy (Pre-Order) - Termination 100388",
	462720:  "Stellaris: Creatures of the Void",
	554350:  "Stellaris: Horizon Signal",
	616190:  "Stellaris: Nova Edition Upgrade Pack",
	2863180: "Stellaris: Rick The Cube Species Portrait",
	2863190: "Stellaris: Season 08 - Expansion Pass",

	// Cities: Skylines II
	2427731: "Cities: Skylines II - Landmark Buildings",
	2427740: "Cities: Skylines II - Beach Properties",
	2887600: "Cities: Skylines II - Beach Properties Bundle",
	3350700: "Cities: Skylines II - Modern City Bundle",
	3535990: "Cities: Skylines II - Unknown DLC 3535990",

	// Europa Universalis IV
	241360:  "Europa Universalis IV: 100 Years War Unit Pack",
	241361:  "Europa Universalis IV: Horsemen of the Crescent Unit Pack",
	241362:  "Europa Universalis IV: Winged Hussars Unit Pack",
	241363:  "Europa Universalis IV: Star and Crescent DLC",
	241364:  "Europa Universalis IV: American Dream DLC",
	241365:  "Europa Universalis IV: Purple Phoenix",
	241366:  "Europa Universalis IV: National Monuments",
	241367:  "Europa Universalis IV: Conquest of Constantinople Music Pack",
	241368:  "Europa Universalis IV: National Monuments II",
	241370:  "Europa Universalis IV: Conquistadors Unit pack",
	241371:  "Europa Universalis IV: Native Americans Unit Pack",
	241372:  "Europa Universalis IV: Songs of the New World",
	279622:  "Europa Universalis IV: Trade Nations Unit Pack",
	295220:  "Europa Universalis IV: Anthology of Alternate History",
	295221:  "Europa Universalis IV: Indian Subcontinent Unit Pack",
	304590:  "Europa Universalis IV: Wealth of Nations E-book",
	310032:  "Europa Universalis IV: Evangelical Union Unit Pack",
	310033:  "Europa Universalis IV: Catholic League Unit Pack",
	327831:  "Europa Universalis IV: Art of War Ebook",
	338163:  "Europa Universalis IV: Common Sense",
	373160:  "Europa Universalis IV: Common Sense E-Book",
	373380:  "Europa Universalis IV: The Cossacks Content Pack",
	414300:  "Europa Universalis IV: Catholic Majors Unit Pack",
	436121:  "Europa Universalis IV: Mare Nostrum Content Pack",
	443720:  "Europa Universalis IV: Sounds from the community - Kairi Soundtrack Part II",
	472030:  "Europa Universalis IV: Fredman's Epistles",
	486571:  "Europa Universalis IV: Rights of Man Content Pack",
	617962:  "Europa Universalis IV: Early Upgrade Pack",
	625170:  "Europa Universalis IV: Call-to-Arms Pack",
	642780:  "Europa Universalis IV: The Rus Awakening",
	721341:  "Europa Universalis IV: Cradle of Civilization Content Pack",
	827250:  "Europa Universalis IV: Dharma Content Pack",
	834360:  "Europa Universalis IV: Ultimate Unit Pack",
	957010:  "Europa Universalis IV: Dharma Collection - Terminating 103673",
	960850:  "Europa Universalis IV: Test 6",
	1009630: "Europa Universalis IV: Imperator Unit Pack",
	1264340: "Europa Universalis IV: Emperor Content Pack",
	2350610: "Europa Universalis IV: Domination (Pre-Purchase Bonus)",
	2856680: "Europa Universalis IV: Winds of Change (Pre-Purchase Bonus)",

	// Cities: Skylines
	340160: "Cities: Skylines - Preorder Pack",
	346790: "SteamDB Unknown App 346790",
	352510: "Cities: Skylines - Soundtrack",
	352511: "Cities: Skylines - The Architecture Artbook",
	352512: "Cities: Skylines - The Monuments Booklet",
	355600: "Cities: Skylines - Post Cards",
	365040: "Cities: Skylines - Korean language",
	525940: "Cities: Skylines - Juventus F.C Club Pack",
	526610: "Cities: Skylines - Chelsea F.C Club Pack",
	526611: "Cities: Skylines - FC Barcelona Club Pack",
	526612: "Cities: Skylines - Paris Saint-Germain F.C.",
	536610: "Cities: Skylines - Stadiums: European Club Pack",

	// Imperator: Rome
	978950:  "Imperator Rome: Hellenistic World Flavor Pack",
	1070470: "Imperator Rome: Wallpapers + Artbook",

	// Crusader Kings II
	210897: "Crusader Kings II: African Portraits",
	428720: "Crusader Kings II: South Indian Portraits",
}
