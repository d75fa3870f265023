package domain

// defaultSKUs is the agency's service catalog. Prices are in euros before IVA.
var defaultSKUs = []SKU{
	{
		ID:          SKUOnePage,
		Title:       "Landing one-page",
		Category:    CategoryCore,
		Description: "Secciones: quiénes somos, horarios, ubicación y contacto.",
		BasePrice:   600,
		Tags:        []string{"landing", "onepage"},
	},
	{
		ID:          SKUMultiPage,
		Title:       "Web multi-página",
		Category:    CategoryCore,
		Description: "Estructura multi-página escalable.",
		BasePrice:   800,
		Unit:        UnitPerPage,
		UnitPrice:   80,
		Tags:        []string{"corporativa"},
	},
	{
		ID:          SKUResponsive,
		Title:       "Diseño responsive",
		Category:    CategoryDesign,
		Description: "Mobile-first, limpio y moderno.",
		BasePrice:   150,
	},
	{
		ID:          SKUContactForm,
		Title:       "Formulario de contacto",
		Category:    CategoryFunctional,
		Description: "Validación + envío a email.",
		BasePrice:   120,
		Tags:        []string{"contacto"},
	},
	{
		ID:          SKUWhatsApp,
		Title:       "Botones WhatsApp/llamada",
		Category:    CategoryFunctional,
		Description: "CTA directo para conversiones.",
		BasePrice:   60,
	},
	{
		ID:          SKUMap,
		Title:       "Mapa interactivo",
		Category:    CategoryFunctional,
		Description: "Mapa con ubicación/POIs.",
		BasePrice:   80,
	},
	{
		ID:          SKUSEOLocal,
		Title:       "SEO local",
		Category:    CategorySEO,
		Description: "On-page básico + metadatos + schema local.",
		BasePrice:   180,
		Tags:        []string{"seo", "local"},
	},
	{
		ID:          SKUFAQ,
		Title:       "Página FAQ",
		Category:    CategoryContent,
		Description: "FAQs editables.",
		BasePrice:   90,
	},
	{
		ID:          SKUBilingual,
		Title:       "Segundo idioma",
		Category:    CategoryContent,
		Description: "Estructura bilingüe.",
		BasePrice:   120,
		Unit:        UnitPerLang,
		UnitPrice:   80,
	},
	{
		ID:          SKUGBP,
		Title:       "Google Business Profile",
		Category:    CategoryIntegrations,
		Description: "Alta/optimización GBP.",
		BasePrice:   120,
		Tags:        []string{"integrations"},
	},
	{
		ID:          SKUEcomCatalog,
		Title:       "Catálogo e-commerce",
		Category:    CategoryFunctional,
		Description: "Listado y fichas de producto (dimensión por nº de productos).",
		BasePrice:   300,
		Unit:        UnitPerProduct,
		UnitPrice:   5,
		Tags:        []string{"ecommerce", "tienda", "producto"},
	},
	{
		ID:          SKUPhotoSession,
		Title:       "Sesión de foto y vídeo",
		Category:    CategoryMedia,
		Description: "Cobertura profesional local.",
		BasePrice:   350,
	},
	{
		ID:          SKUTestimonials,
		Title:       "Opiniones y testimonios",
		Category:    CategoryContent,
		Description: "Sección de reviews.",
		BasePrice:   100,
	},
	{
		ID:          SKUBlog,
		Title:       "Blog",
		Category:    CategoryContent,
		Description: "CMS + listados + post.",
		BasePrice:   220,
	},
	{
		ID:          SKUPrivateArea,
		Title:       "Área privada (recursos)",
		Category:    CategoryContent,
		Description: "Descargas, PDFs, links.",
		BasePrice:   200,
	},
	{
		ID:          SKUBooking,
		Title:       "Reservas y pagos online",
		Category:    CategoryFunctional,
		Description: "Clases/Matrículas (pasarela).",
		BasePrice:   260,
		Constraints: Constraints{Requires: []string{SKUBasicNav}},
	},
	{
		ID:          SKUBasicNav,
		Title:       "Navegación/menús",
		Category:    CategoryContent,
		Description: "Header/Footer y rutas.",
		BasePrice:   60,
	},
}

var defaultCatalog = MustNewCatalog(defaultSKUs)

// DefaultCatalog returns the process-wide service catalog.
func DefaultCatalog() *Catalog {
	return defaultCatalog
}
