package enrichment

// Reference vocabularies for Swiss property documents. These lists drive
// keyword classification and location extraction; they are maintained by
// hand and intentionally biased towards the canton of Vaud.

// swissCantons maps official abbreviations to French canton names.
var swissCantons = map[string]string{
	"VD": "Vaud", "GE": "Genève", "VS": "Valais", "FR": "Fribourg",
	"NE": "Neuchâtel", "BE": "Berne", "ZH": "Zurich", "LU": "Lucerne",
	"TI": "Tessin", "GR": "Grisons", "SG": "Saint-Gall", "AG": "Argovie",
	"TG": "Thurgovie", "JU": "Jura", "SO": "Soleure", "BS": "Bâle-Ville",
	"BL": "Bâle-Campagne", "SH": "Schaffhouse", "AR": "Appenzell Rhodes-Extérieures",
	"AI": "Appenzell Rhodes-Intérieures", "SZ": "Schwytz", "UR": "Uri",
	"OW": "Obwald", "NW": "Nidwald", "GL": "Glaris", "ZG": "Zoug",
}

// vaudCommunes lists the communes recognised during location extraction.
var vaudCommunes = []string{
	"Aigle", "Lausanne", "Vevey", "Montreux", "Yverdon-les-Bains",
	"Morges", "Nyon", "Renens", "Pully", "Prilly", "La Tour-de-Peilz",
	"Gland", "Ecublens", "Crissier", "Bussigny", "Lutry", "Epalinges",
	"Le Mont-sur-Lausanne", "Chavannes-près-Renens", "Villeneuve",
	"Clarens", "Blonay", "Saint-Légier-La Chiésaz", "Corsier-sur-Vevey",
	"Bex", "Ollon", "Leysin", "Villars-sur-Ollon", "Gryon",
}

// docTypeKeywords maps a canonical document type to the keywords that
// signal it, checked against the file name first and then the opening of
// the text.
var docTypeKeywords = map[string][]string{
	"evaluation":     {"évaluation", "evaluation", "expertise", "estimation"},
	"contrat":        {"contrat", "bail", "convention", "acte"},
	"rapport":        {"rapport", "bilan", "compte rendu"},
	"facture":        {"facture", "décompte"},
	"offre":          {"offre", "proposition", "soumission"},
	"plan":           {"plan", "schéma", "dessin"},
	"permis":         {"permis", "autorisation", "décision"},
	"proces-verbal":  {"procès-verbal", "assemblée"},
	"correspondance": {"lettre", "courrier", "courriel", "email"},
}

// categoryKeywords maps a document category to its signal keywords. The
// category with the most keyword hits wins.
var categoryKeywords = map[string][]string{
	"immobilier":    {"immobilier", "immeuble", "appartement", "villa", "terrain", "propriété"},
	"juridique":     {"contrat", "convention", "bail", "acte", "procès-verbal", "jugement"},
	"financier":     {"bilan", "compte", "résultat", "actif", "passif", "exercice"},
	"technique":     {"plan", "expertise", "diagnostic", "étude", "analyse technique"},
	"administratif": {"autorisation", "permis", "décision", "demande", "certificat"},
}

// propertyTypes lists recognised property kinds, most specific first.
var propertyTypes = []string{
	"immeuble locatif", "immeuble résidentiel", "immeuble de rapport",
	"immeuble commercial", "maison mitoyenne", "terrain à bâtir",
	"terrain agricole", "local commercial", "surface commerciale",
	"local industriel", "place de parc", "appartement", "villa", "chalet",
	"maison", "studio", "loft", "attique", "penthouse", "duplex",
	"résidence", "copropriété", "bureau", "boutique", "restaurant",
	"hôtel", "commerce", "entrepôt", "hangar", "atelier", "usine",
	"parking", "garage", "cave", "terrain", "parcelle",
}

// frenchMonths maps lowercase month names to their ordinal.
var frenchMonths = map[string]int{
	"janvier": 1, "février": 2, "mars": 3, "avril": 4, "mai": 5,
	"juin": 6, "juillet": 7, "août": 8, "septembre": 9, "octobre": 10,
	"novembre": 11, "décembre": 12,
}

// languageStopwords holds high-frequency function words per language,
// used for naive language detection over a bounded text sample.
var languageStopwords = map[string][]string{
	"fr": {"et", "le", "la", "de", "du", "des", "une", "les", "dans", "sur"},
	"en": {"the", "and", "of", "in", "to", "is", "for", "with", "that", "this"},
	"de": {"der", "die", "das", "und", "den", "dem", "des", "ein", "eine", "ist"},
}

// contractRoles lists the contractual role labels recognised by the party
// extractor, e.g. "Bailleur: Immobilière Vaudoise SA".
var contractRoles = []string{
	"bailleur", "locataire", "vendeur", "acheteur", "mandant", "mandataire",
}
