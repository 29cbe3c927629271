package demoserver

// PageVersion is one revision of a demo page.
type PageVersion struct {
	HTML string
}

// PageDefinition is a demo page with one or more switchable versions.
// Version 1 is deliberately full of alt text defects; version 2 is the
// remediated page, so an audit before and after the switch shows both the
// compliance delta and a meaningful snapshot diff.
type PageDefinition struct {
	Path     string
	Name     string
	Versions map[int]PageVersion
}

// GetAllPages returns the demo storefront pages.
func GetAllPages() []PageDefinition {
	return []PageDefinition{
		{
			Path: "/",
			Name: "Home",
			Versions: map[int]PageVersion{
				1: {HTML: `<!DOCTYPE html>
<html>
<head><title>Glowstar Outfitters</title></head>
<body>
  <img src="/static/logo.png" alt="image">
  <img src="/static/hero-banner.jpg">
  <nav>
    <a href="/products">Products</a>
    <a href="/about">About</a>
  </nav>
  <h1>Welcome to Glowstar Outfitters</h1>
  <img src="/static/divider.png" alt="decorative divider" role="presentation">
</body>
</html>`},
				2: {HTML: `<!DOCTYPE html>
<html lang="en">
<head>
  <title>Glowstar Outfitters</title>
  <meta name="viewport" content="width=device-width, initial-scale=1">
</head>
<body>
  <a href="#main-content" class="skip-link">Skip to main content</a>
  <img src="/static/logo.png" alt="Glowstar Outfitters logo">
  <img src="/static/hero-banner.jpg" alt="Hikers crossing an alpine ridge at sunrise wearing Glowstar packs" width="1200" height="400">
  <nav>
    <a href="/products">Products</a>
    <a href="/about">About</a>
  </nav>
  <main id="main-content">
    <h1>Welcome to Glowstar Outfitters</h1>
  </main>
  <img src="/static/divider.png" alt="" role="presentation">
</body>
</html>`},
			},
		},
		{
			Path: "/products",
			Name: "Product Listing",
			Versions: map[int]PageVersion{
				1: {HTML: `<!DOCTYPE html>
<html>
<head><title>Products</title></head>
<body>
  <h1>Products</h1>
  <a href="/products/trail-pack">Trail Pack 40L</a>
  <ul>
    <li><img src="/static/IMG_2041.jpg" alt="IMG_2041.jpg"></li>
    <li><img src="/static/headlamp.jpg" alt="photo of"></li>
    <li><img src="/static/tent.jpg" alt="picture"></li>
    <li><img src="/static/stove.jpg" alt="Compact two-burner camp stove with folding windshield" width="300" height="300"></li>
  </ul>
  <div style="background-image: url('/static/sale-banner.jpg')">Summer sale</div>
</body>
</html>`},
				2: {HTML: `<!DOCTYPE html>
<html lang="en">
<head>
  <title>Products</title>
  <meta name="viewport" content="width=device-width, initial-scale=1">
</head>
<body>
  <a href="#main-content" class="skip-nav">Skip to content</a>
  <main id="main-content">
  <h1>Products</h1>
  <a href="/products/trail-pack">Trail Pack 40L</a>
  <ul>
    <li><img src="/static/IMG_2041.jpg" alt="Trail Pack 40L backpack in forest green, front view" width="300" height="300"></li>
    <li><img src="/static/headlamp.jpg" alt="Rechargeable LED headlamp with adjustable strap" width="300" height="300"></li>
    <li><img src="/static/tent.jpg" alt="Two-person dome tent pitched on grass" width="300" height="300"></li>
    <li><img src="/static/stove.jpg" alt="Compact two-burner camp stove with folding windshield" width="300" height="300"></li>
  </ul>
  <div style="background-image: url('/static/sale-banner.jpg')" role="img" aria-label="Summer sale, up to 40 percent off">Summer sale</div>
  </main>
</body>
</html>`},
			},
		},
		{
			Path: "/products/trail-pack",
			Name: "Product Detail",
			Versions: map[int]PageVersion{
				1: {HTML: `<!DOCTYPE html>
<html>
<head><title>Trail Pack 40L</title></head>
<body>
  <h1>Trail Pack 40L</h1>
  <svg viewBox="0 0 24 24"><path d="M12 2L2 22h20z"/></svg>
  <figure>
    <img src="/static/trail-pack-side.jpg" alt="TRAIL PACK SIDE VIEW PRODUCT SHOT">
  </figure>
  <img src="/static/trail-pack-detail.jpg" alt="This is an extremely detailed description of the trail pack that goes on and on about every single strap, buckle, zipper, pocket, seam, fabric panel, hydration port, compression system, frame stay, hip belt, sternum strap, load lifter, and rain cover that the pack includes in its design and construction, far beyond what a listener needs">
  <form action="/cart">
    <input type="image" src="/static/add-to-cart.png">
  </form>
</body>
</html>`},
				2: {HTML: `<!DOCTYPE html>
<html lang="en">
<head>
  <title>Trail Pack 40L</title>
  <meta name="viewport" content="width=device-width, initial-scale=1">
</head>
<body>
  <a href="#main-content" class="skip-link">Skip to main content</a>
  <main id="main-content">
  <h1>Trail Pack 40L</h1>
  <svg viewBox="0 0 24 24" role="img" aria-label="Warning, limited stock"><path d="M12 2L2 22h20z"/></svg>
  <figure>
    <img src="/static/trail-pack-side.jpg" alt="Side view of the Trail Pack 40L showing the hip belt pockets" width="600" height="600">
    <figcaption>Side view with hip belt pockets</figcaption>
  </figure>
  <img src="/static/trail-pack-detail.jpg" alt="Close-up of the Trail Pack 40L compression straps and hydration port" longdesc="/products/trail-pack/details" width="600" height="600">
  <form action="/cart">
    <input type="image" src="/static/add-to-cart.png" alt="Add to cart">
  </form>
  </main>
</body>
</html>`},
			},
		},
		{
			Path: "/about",
			Name: "About",
			Versions: map[int]PageVersion{
				1: {HTML: `<!DOCTYPE html>
<html>
<head>
  <title>About</title>
  <meta name="viewport" content="width=device-width, initial-scale=1, maximum-scale=1, user-scalable=no">
</head>
<body>
  <h1>About Glowstar Outfitters</h1>
  <img src="/static/team.jpg" alt="">
  <map name="regions">
    <area shape="rect" coords="0,0,100,100" href="/products" alt="">
  </map>
</body>
</html>`},
				2: {HTML: `<!DOCTYPE html>
<html lang="en">
<head>
  <title>About</title>
  <meta name="viewport" content="width=device-width, initial-scale=1">
</head>
<body>
  <a href="#main-content" class="skip-link">Skip to main content</a>
  <main id="main-content">
  <h1>About Glowstar Outfitters</h1>
  <img src="/static/team.jpg" alt="The Glowstar team of eight standing outside the Boulder workshop" width="800" height="500">
  <map name="regions">
    <area shape="rect" coords="0,0,100,100" href="/products" alt="Browse products">
  </map>
  </main>
</body>
</html>`},
			},
		},
	}
}
